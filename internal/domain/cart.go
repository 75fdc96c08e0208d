package domain

import "time"

// LineItem is one product+size+quantity entry in a cart or order.
type LineItem struct {
	LineID    string `json:"line_id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	ImageURL  string `json:"image_url,omitempty"`
}

// LineID derives the composite line key from a product id and size. Two
// additions of the same product+size merge into a single line rather than
// duplicating.
func LineID(productID, size string) string {
	return productID + ":" + size
}

// Subtotal returns the line's price contribution in cents.
func (li *LineItem) Subtotal() int64 {
	return li.UnitPrice * int64(li.Quantity)
}

// Cart represents a session-scoped shopping cart. It is created empty at
// session start, mutated freely, and discarded on checkout or TTL expiry.
// Totals are always derived from the lines, never stored.
type Cart struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id"`
	Items     []LineItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// Total calculates the total price of all items in the cart (in cents).
func (c *Cart) Total() int64 {
	var total int64
	for i := range c.Items {
		total += c.Items[i].Subtotal()
	}
	return total
}

// ItemCount returns the sum of quantities across all lines.
func (c *Cart) ItemCount() int {
	var count int
	for i := range c.Items {
		count += c.Items[i].Quantity
	}
	return count
}

// FindLineIndex returns the index of the line matching the given line id, or
// -1 if not found.
func (c *Cart) FindLineIndex(lineID string) int {
	for i := range c.Items {
		if c.Items[i].LineID == lineID {
			return i
		}
	}
	return -1
}

// AddItem adds a line item to the cart. If a line with the same line id
// already exists, the quantities merge. A non-positive quantity defaults to 1.
// No transition is ever rejected at this layer; stock limits are advisory and
// belong to the caller holding the authoritative figure.
func (c *Cart) AddItem(item LineItem) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	item.LineID = LineID(item.ProductID, item.Size)

	if i := c.FindLineIndex(item.LineID); i >= 0 {
		c.Items[i].Quantity += item.Quantity
		c.Items[i].UnitPrice = item.UnitPrice
		c.Items[i].Name = item.Name
		c.Items[i].ImageURL = item.ImageURL
		return
	}

	c.Items = append(c.Items, item)
}

// UpdateQuantity sets the quantity of the line directly. A quantity of zero or
// below removes the line. Updating an absent line is a no-op.
func (c *Cart) UpdateQuantity(lineID string, quantity int) {
	i := c.FindLineIndex(lineID)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return
	}
	c.Items[i].Quantity = quantity
}

// RemoveItem deletes the line if present; no-op otherwise.
func (c *Cart) RemoveItem(lineID string) {
	i := c.FindLineIndex(lineID)
	if i < 0 {
		return
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

// Clear empties all lines. The cart is reset, not destroyed.
func (c *Cart) Clear() {
	c.Items = []LineItem{}
}

// Snapshot returns a deep copy of the cart's lines, so an order built from the
// cart is unaffected by later cart mutations.
func (c *Cart) Snapshot() []LineItem {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return items
}
