package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/anatole0000/book-store/internal/domain"
	"github.com/anatole0000/book-store/internal/logger"
	"github.com/anatole0000/book-store/internal/order"
)

// PlaceOrderRequest represents the request body for placing an order
type PlaceOrderRequest struct {
	Lines []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// OrderLineRequest is one requested line of a new order
type OrderLineRequest struct {
	BookID   string `json:"book_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// UpdateOrderStatusRequest represents the request body for advancing an order
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,order_status"`
}

// HandlePlaceOrder places a new order for the calling user
func HandlePlaceOrder(svc order.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		caller, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req PlaceOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode place order request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}
		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid place order request", "error", err)
			respondJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": FormatValidationError(err)})
			return
		}

		lines := make([]domain.OrderLineRequest, 0, len(req.Lines))
		for _, line := range req.Lines {
			bookID, err := uuid.Parse(line.BookID)
			if err != nil {
				respondError(w, http.StatusBadRequest, ErrMsgInvalidBookID)
				return
			}
			lines = append(lines, domain.OrderLineRequest{BookID: bookID, Quantity: line.Quantity})
		}

		placed, err := svc.PlaceOrder(r.Context(), caller, lines)
		if err != nil {
			log.Error("Failed to place order", "error", err, "user_id", caller.UserID)
			respondServiceError(w, err, ErrMsgPlaceOrderFailed)
			return
		}
		respondJSON(w, http.StatusCreated, placed)
	}
}

// HandleGetOrder serves a single order. Callers only see their own orders
// unless privileged.
func HandleGetOrder(svc order.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidOrderID)
			return
		}

		found, err := svc.GetOrder(r.Context(), CallerFromRequest(r), id)
		if err != nil {
			respondServiceError(w, err, ErrMsgGetOrderFailed)
			return
		}
		respondJSON(w, http.StatusOK, found)
	}
}

// HandleListOrders lists the calling user's orders, or every order for
// privileged callers
func HandleListOrders(svc order.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := CallerFromRequest(r)
		if !caller.Privileged {
			var ok bool
			if caller, ok = requireUser(w, r); !ok {
				return
			}
		}

		orders, err := svc.ListOrders(r.Context(), caller)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to list orders", "error", err)
			respondServiceError(w, err, ErrMsgListOrdersFailed)
			return
		}
		respondJSON(w, http.StatusOK, ListResponse{Data: orders, Total: len(orders)})
	}
}

// HandleUpdateOrderStatus advances an order through fulfillment (admin)
func HandleUpdateOrderStatus(svc order.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		id, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidOrderID)
			return
		}

		var req UpdateOrderStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode order status request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}
		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid order status request", "error", err)
			respondJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": FormatValidationError(err)})
			return
		}

		updated, err := svc.UpdateOrderStatus(r.Context(), CallerFromRequest(r), id, domain.OrderStatus(req.Status))
		if err != nil {
			log.Error("Failed to update order status", "error", err, "order_id", id)
			respondServiceError(w, err, ErrMsgUpdateOrderFailed)
			return
		}
		respondJSON(w, http.StatusOK, updated)
	}
}

// HandleDeleteOrder purges a pending order (admin)
func HandleDeleteOrder(svc order.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidOrderID)
			return
		}

		if err := svc.DeleteOrder(r.Context(), CallerFromRequest(r), id); err != nil {
			logger.FromContext(r.Context()).Error("Failed to delete order", "error", err, "order_id", id)
			respondServiceError(w, err, ErrMsgDeleteOrderFailed)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgOrderDeletedSuccess})
	}
}
