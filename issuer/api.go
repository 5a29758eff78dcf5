package issuer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// API exposes the dev HTTP surface of the issuer service.
type API struct {
	handler *Handler
}

func NewAPI(handler *Handler) *API {
	return &API{handler: handler}
}

func (a *API) AppendRoutes(r chi.Router) {
	// Runs the pipeline synchronously on a raw risk-evaluation envelope and
	// returns the emitted event. The outbound event is still published.
	r.Post("/dev/authorize", a.devAuthorize)
}

func (a *API) devAuthorize(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	event, err := a.handler.Process(ctx, payload)
	if err != nil {
		if errors.Is(err, ErrDropped) {
			http.Error(w, "envelope dropped", http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(event)
}
