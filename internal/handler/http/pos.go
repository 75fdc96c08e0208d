package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/menstyle/storefront/internal/domain"
	"github.com/menstyle/storefront/internal/service"
	"github.com/menstyle/storefront/pkg/httputil"
	"github.com/menstyle/storefront/pkg/validator"
)

// POSHandler handles the point-of-sale endpoints used by store operators.
type POSHandler struct {
	service *service.POSService
	logger  *slog.Logger
}

// NewPOSHandler creates a new point-of-sale HTTP handler.
func NewPOSHandler(svc *service.POSService, logger *slog.Logger) *POSHandler {
	return &POSHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddDraftLineRequest is the JSON request body for adding a product to the draft.
type AddDraftLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size" validate:"required"`
}

// UpdateDraftLineRequest is the JSON request body for setting a line's quantity.
type UpdateDraftLineRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// LocalSaleRequest is the JSON request body for submitting a local sale.
type LocalSaleRequest struct {
	CustomerName  string `json:"customer_name" validate:"required"`
	CustomerPhone string `json:"customer_phone"`
	PaymentMethod string `json:"payment_method" validate:"required"`
}

// --- Handlers ---

// GetDraft handles GET /api/v1/admin/pos/draft
func (h *POSHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.GetDraft(r.Context(), registerIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: draft})
}

// AddLine handles POST /api/v1/admin/pos/draft/lines
func (h *POSHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	var req AddDraftLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	draft, err := h.service.AddProduct(r.Context(), registerIDFromContext(r.Context()), req.ProductID, req.Size)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: draft})
}

// UpdateLine handles PUT /api/v1/admin/pos/draft/lines/{index}
func (h *POSHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "index must be a non-negative integer"},
		})
		return
	}

	var req UpdateDraftLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	draft, err := h.service.UpdateQuantity(r.Context(), registerIDFromContext(r.Context()), index, req.Quantity)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: draft})
}

// RemoveLine handles DELETE /api/v1/admin/pos/draft/lines/{index}
func (h *POSHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "index must be a non-negative integer"},
		})
		return
	}

	draft, err := h.service.RemoveLine(r.Context(), registerIDFromContext(r.Context()), index)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: draft})
}

// ClearDraft handles DELETE /api/v1/admin/pos/draft
func (h *POSHandler) ClearDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearDraft(r.Context(), registerIDFromContext(r.Context())); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}

// Change handles GET /api/v1/admin/pos/change?tendered=10000. Figures are in
// cents; the formatted value is a convenience for the register display.
func (h *POSHandler) Change(w http.ResponseWriter, r *http.Request) {
	tendered, err := strconv.ParseInt(r.URL.Query().Get("tendered"), 10, 64)
	if err != nil || tendered < 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "tendered must be a non-negative integer in cents"},
		})
		return
	}

	change, err := h.service.Change(r.Context(), registerIDFromContext(r.Context()), tendered)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"change":           change,
		"change_formatted": domain.FormatBRL(change),
	}})
}

// SubmitSale handles POST /api/v1/admin/pos/sale. When the order is written
// but the stock decrement sequence fails partway, the order is still returned
// with a warning so the operator can reconcile stock by hand.
func (h *POSHandler) SubmitSale(w http.ResponseWriter, r *http.Request) {
	var req LocalSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := service.LocalSaleInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		PaymentMethod: req.PaymentMethod,
	}

	result, err := h.service.Submit(r.Context(), registerIDFromContext(r.Context()), input)
	if err != nil {
		var syncErr *service.StockSyncError
		if errors.As(err, &syncErr) {
			h.logger.ErrorContext(r.Context(), "stock decrement incomplete after sale",
				slog.String("order_id", syncErr.OrderID),
				slog.String("error", syncErr.Error()),
			)
			httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: map[string]any{
				"order":   result.Order,
				"warning": "order recorded but stock update incomplete; reconcile stock manually",
			}})
			return
		}
		writeServiceError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: result})
}
