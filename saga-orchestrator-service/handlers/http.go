package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/quickeats/delivery-system/saga-orchestrator-service/application"
	"github.com/quickeats/delivery-system/saga-orchestrator-service/domain"
)

// SagaHandlers contains saga HTTP handlers
type SagaHandlers struct {
	startSaga      *application.StartSaga
	getSagaStatus  *application.GetSagaStatus
	compensateSaga *application.CompensateSaga
}

// NewSagaHandlers creates new saga handlers
func NewSagaHandlers(
	startSaga *application.StartSaga,
	getSagaStatus *application.GetSagaStatus,
	compensateSaga *application.CompensateSaga,
) *SagaHandlers {
	return &SagaHandlers{
		startSaga:      startSaga,
		getSagaStatus:  getSagaStatus,
		compensateSaga: compensateSaga,
	}
}

// StartSaga handles saga start requests. The request blocks until the saga
// has run to completion or has failed and been compensated; the structured
// outcome is returned either way with a 200.
func (h *SagaHandlers) StartSaga(w http.ResponseWriter, r *http.Request) {
	var cmd application.StartSagaCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if cmd.SagaType == "" {
		http.Error(w, "saga_type is required", http.StatusBadRequest)
		return
	}
	if cmd.EntityID == "" {
		http.Error(w, "entity_id is required", http.StatusBadRequest)
		return
	}

	result, err := h.startSaga.Execute(r.Context(), &cmd)
	if err != nil {
		if _, ok := err.(*domain.WorkflowMismatchError); ok {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

// GetSagaStatus handles saga status requests
func (h *SagaHandlers) GetSagaStatus(w http.ResponseWriter, r *http.Request) {
	sagaID := chi.URLParam(r, "saga_id")
	if sagaID == "" {
		http.Error(w, "Saga ID is required", http.StatusBadRequest)
		return
	}

	response, err := h.getSagaStatus.Execute(r.Context(), &application.GetSagaStatusQuery{SagaID: sagaID})
	if err != nil {
		if err == application.ErrSagaNotFound {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// CompensateSaga handles manual compensation requests
func (h *SagaHandlers) CompensateSaga(w http.ResponseWriter, r *http.Request) {
	sagaID := chi.URLParam(r, "saga_id")
	if sagaID == "" {
		http.Error(w, "Saga ID is required", http.StatusBadRequest)
		return
	}

	err := h.compensateSaga.Execute(r.Context(), &application.CompensateSagaCommand{SagaID: sagaID})
	if err != nil {
		if err == application.ErrSagaNotFound {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err == application.ErrSagaNotCompensable {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"saga_id": sagaID, "status": "compensation_triggered"})
}

// RegisterRoutes registers saga routes
func (h *SagaHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/sagas", func(r chi.Router) {
		r.Post("/start", h.StartSaga)
		r.Route("/{saga_id}", func(r chi.Router) {
			r.Get("/status", h.GetSagaStatus)
			r.Post("/compensate", h.CompensateSaga)
		})
	})
}
