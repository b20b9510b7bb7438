package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/quickeats/delivery-system/payment-service/application"
	"github.com/quickeats/delivery-system/payment-service/domain"
)

// PaymentHandlers contains payment HTTP handlers
type PaymentHandlers struct {
	processPayment    *application.ProcessPayment
	refundPayment     *application.RefundPayment
	compensatePayment *application.CompensatePayment
	getPayment        *application.GetPayment
}

// NewPaymentHandlers creates new payment handlers
func NewPaymentHandlers(
	processPayment *application.ProcessPayment,
	refundPayment *application.RefundPayment,
	compensatePayment *application.CompensatePayment,
	getPayment *application.GetPayment,
) *PaymentHandlers {
	return &PaymentHandlers{
		processPayment:    processPayment,
		refundPayment:     refundPayment,
		compensatePayment: compensatePayment,
		getPayment:        getPayment,
	}
}

// ProcessPayment handles internal charge requests from the saga
// orchestrator. A gateway decline maps to 402 so the calling saga step
// fails and triggers compensation.
func (h *PaymentHandlers) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var cmd application.ProcessPaymentCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.processPayment.Execute(r.Context(), &cmd)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentDeclined) {
			http.Error(w, err.Error(), http.StatusPaymentRequired)
			return
		}
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// RefundPayment handles refund requests
func (h *PaymentHandlers) RefundPayment(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "payment_id")
	if paymentID == "" {
		http.Error(w, "Payment ID is required", http.StatusBadRequest)
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	response, err := h.refundPayment.Execute(r.Context(), &application.RefundPaymentCommand{
		PaymentID: paymentID,
		Reason:    body.Reason,
	})
	if err != nil {
		if err == domain.ErrPaymentNotFound {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err == domain.ErrPaymentNotRefundable {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// CompensatePayment handles saga compensation requests
func (h *PaymentHandlers) CompensatePayment(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "payment_id")
	if paymentID == "" {
		http.Error(w, "Payment ID is required", http.StatusBadRequest)
		return
	}

	response, err := h.compensatePayment.Execute(r.Context(), &application.CompensatePaymentCommand{PaymentID: paymentID})
	if err != nil {
		if err == domain.ErrPaymentNotFound {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetPayment handles payment retrieval requests
func (h *PaymentHandlers) GetPayment(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "payment_id")
	orderID := r.URL.Query().Get("order_id")

	if paymentID == "" && orderID == "" {
		http.Error(w, "Either payment ID or order ID is required", http.StatusBadRequest)
		return
	}

	payment, err := h.getPayment.Execute(r.Context(), &application.GetPaymentQuery{
		PaymentID: paymentID,
		OrderID:   orderID,
	})
	if err != nil {
		if err == domain.ErrPaymentNotFound {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payment)
}

// RegisterRoutes registers payment routes
func (h *PaymentHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/payments", func(r chi.Router) {
		r.Post("/internal", h.ProcessPayment)
		r.Get("/", h.GetPayment)
		r.Route("/{payment_id}", func(r chi.Router) {
			r.Get("/", h.GetPayment)
			r.Post("/refund", h.RefundPayment)
			r.Post("/compensate", h.CompensatePayment)
		})
	})
}
