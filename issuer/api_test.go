package issuer_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tigelah/issuer-simulator/internal/ledger"
	"github.com/tigelah/issuer-simulator/issuer"
	"github.com/tigelah/issuer-simulator/issuer/models"
)

func TestDevAuthorize(t *testing.T) {
	lookup := &fakeLedger{credit: ledger.AvailableCredit{AvailableCents: 100_000}}
	pub := &capturePublisher{}

	router := chi.NewRouter()
	api := issuer.NewAPI(newTestHandler(lookup, pub))
	api.AppendRoutes(router)

	t.Run("authorizes and returns the event", func(t *testing.T) {
		payload := envelope(t, map[string]any{
			"type":         models.TypeRiskApproved,
			"paymentId":    uuid.New().String(),
			"accountId":    uuid.New().String(),
			"amountCents":  1000,
			"merchantId":   "m1",
			"installments": 12,
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/dev/authorize", bytes.NewBuffer(payload))
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var event models.PaymentAuthorized
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &event))
		require.Equal(t, models.TypePaymentAuthorized, event.Type)
		require.Equal(t, int64(1100), event.TotalCents)
	})

	t.Run("dropped envelope is a bad request", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/dev/authorize", bytes.NewBufferString("{not json"))
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDevAuthorize_InfrastructureFailure(t *testing.T) {
	lookup := &fakeLedger{creditErr: errors.New("ledger down")}
	pub := &capturePublisher{}

	router := chi.NewRouter()
	api := issuer.NewAPI(newTestHandler(lookup, pub))
	api.AppendRoutes(router)

	payload := envelope(t, map[string]any{
		"type":        models.TypeRiskApproved,
		"paymentId":   uuid.New().String(),
		"accountId":   uuid.New().String(),
		"amountCents": 1000,
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/dev/authorize", bytes.NewBuffer(payload))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadGateway, w.Code)
	require.Empty(t, pub.authorized)
	require.Empty(t, pub.declined)
}
