package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrSizeRequired is returned when a product is added to a sale draft without
// a size selection.
var ErrSizeRequired = errors.New("size is required")

// QuantityCapError reports an attempt to exceed a product's last-known stock
// in the point-of-sale draft. Max is the highest quantity the operator may
// request for the line.
type QuantityCapError struct {
	ProductName string
	Max         int
}

func (e *QuantityCapError) Error() string {
	return fmt.Sprintf("maximum available quantity for %s: %d", e.ProductName, e.Max)
}

// SaleLine is a draft line with the product's stock figure cached at the time
// it was added. The cap is advisory: live stock is re-checked on submission.
type SaleLine struct {
	LineItem
	StockCap int `json:"stock_cap"`
}

// SaleDraft is the in-progress state of a point-of-sale transaction, keyed by
// register. Unlike the storefront cart, draft mutations enforce the cached
// stock cap so the operator sees oversell mistakes immediately.
type SaleDraft struct {
	RegisterID string     `json:"register_id"`
	Lines      []SaleLine `json:"lines"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
}

// Total calculates the total price of all draft lines (in cents).
func (d *SaleDraft) Total() int64 {
	var total int64
	for i := range d.Lines {
		total += d.Lines[i].Subtotal()
	}
	return total
}

// FindLineIndex returns the index of the draft line matching the given line
// id, or -1 if not found.
func (d *SaleDraft) FindLineIndex(lineID string) int {
	for i := range d.Lines {
		if d.Lines[i].LineID == lineID {
			return i
		}
	}
	return -1
}

// AddProduct appends one unit of the product in the given size, merging with
// an existing line for the same product+size. An empty size is rejected.
// Merging past the cached stock cap fails with a QuantityCapError and leaves
// the quantity unchanged.
func (d *SaleDraft) AddProduct(p *Product, size string) error {
	if size == "" {
		return ErrSizeRequired
	}

	lineID := LineID(p.ID, size)
	if i := d.FindLineIndex(lineID); i >= 0 {
		if d.Lines[i].Quantity >= d.Lines[i].StockCap {
			return &QuantityCapError{ProductName: p.Name, Max: d.Lines[i].StockCap}
		}
		d.Lines[i].Quantity++
		return nil
	}

	d.Lines = append(d.Lines, SaleLine{
		LineItem: LineItem{
			LineID:    lineID,
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Size:      size,
			Quantity:  1,
			ImageURL:  p.ImageURL,
		},
		StockCap: p.Stock,
	})
	return nil
}

// UpdateQuantity sets the quantity of the line at the given index. A quantity
// of zero or below removes the line. A quantity above the cached stock cap is
// rejected with a QuantityCapError naming the maximum allowed.
func (d *SaleDraft) UpdateQuantity(index, quantity int) error {
	if index < 0 || index >= len(d.Lines) {
		return fmt.Errorf("line index %d out of range", index)
	}
	if quantity <= 0 {
		d.RemoveLine(index)
		return nil
	}
	if quantity > d.Lines[index].StockCap {
		return &QuantityCapError{ProductName: d.Lines[index].Name, Max: d.Lines[index].StockCap}
	}
	d.Lines[index].Quantity = quantity
	return nil
}

// RemoveLine deletes the line at the given index; no-op when out of range.
func (d *SaleDraft) RemoveLine(index int) {
	if index < 0 || index >= len(d.Lines) {
		return
	}
	d.Lines = append(d.Lines[:index], d.Lines[index+1:]...)
}

// Clear empties the draft.
func (d *SaleDraft) Clear() {
	d.Lines = []SaleLine{}
}

// Items returns the draft lines as plain order line items.
func (d *SaleDraft) Items() []LineItem {
	items := make([]LineItem, len(d.Lines))
	for i := range d.Lines {
		items[i] = d.Lines[i].LineItem
	}
	return items
}
