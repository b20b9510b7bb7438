package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/quickeats/delivery-system/order-service/application"
	"github.com/quickeats/delivery-system/order-service/domain"
)

// OrderHandlers contains order HTTP handlers
type OrderHandlers struct {
	createOrder     *application.CreateOrder
	confirmOrder    *application.ConfirmOrder
	transitionOrder *application.TransitionOrder
	compensateOrder *application.CompensateOrder
	getOrder        *application.GetOrder
}

// NewOrderHandlers creates new order handlers
func NewOrderHandlers(
	createOrder *application.CreateOrder,
	confirmOrder *application.ConfirmOrder,
	transitionOrder *application.TransitionOrder,
	compensateOrder *application.CompensateOrder,
	getOrder *application.GetOrder,
) *OrderHandlers {
	return &OrderHandlers{
		createOrder:     createOrder,
		confirmOrder:    confirmOrder,
		transitionOrder: transitionOrder,
		compensateOrder: compensateOrder,
		getOrder:        getOrder,
	}
}

// CreateOrder handles internal order creation requests from the saga
// orchestrator. The response carries the generated id for step binding.
func (h *OrderHandlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var cmd application.CreateOrderCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.createOrder.Execute(r.Context(), &cmd)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// ConfirmOrder handles order confirmation requests
func (h *OrderHandlers) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		http.Error(w, "Order ID is required", http.StatusBadRequest)
		return
	}

	response, err := h.confirmOrder.Execute(r.Context(), &application.ConfirmOrderCommand{OrderID: orderID})
	if err != nil {
		if err == domain.ErrOrderNotFound {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err == application.ErrOrderNotConfirmable {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// UpdateOrderStatus handles lifecycle transition requests
func (h *OrderHandlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		http.Error(w, "Order ID is required", http.StatusBadRequest)
		return
	}

	var cmd application.UpdateOrderStatusCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	cmd.OrderID = orderID

	response, err := h.transitionOrder.Execute(r.Context(), &cmd)
	if err != nil {
		if err == domain.ErrOrderNotFound {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err == application.ErrTransitionNotAllowed {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// CompensateOrder handles saga compensation requests
func (h *OrderHandlers) CompensateOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		http.Error(w, "Order ID is required", http.StatusBadRequest)
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	// Compensation calls may arrive without a body.
	_ = json.NewDecoder(r.Body).Decode(&body)

	response, err := h.compensateOrder.Execute(r.Context(), &application.CompensateOrderCommand{
		OrderID: orderID,
		Reason:  body.Reason,
	})
	if err != nil {
		if err == domain.ErrOrderNotFound {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetOrder handles order retrieval requests
func (h *OrderHandlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		http.Error(w, "Order ID is required", http.StatusBadRequest)
		return
	}

	order, err := h.getOrder.Execute(r.Context(), &application.GetOrderQuery{OrderID: orderID})
	if err != nil {
		if err == domain.ErrOrderNotFound {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

// RegisterRoutes registers order routes
func (h *OrderHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/internal", h.CreateOrder)
		r.Route("/{order_id}", func(r chi.Router) {
			r.Get("/", h.GetOrder)
			r.Put("/confirm", h.ConfirmOrder)
			r.Put("/status", h.UpdateOrderStatus)
			r.Post("/compensate", h.CompensateOrder)
		})
	})
}
