package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tigelah/issuer-simulator/issuer/models"
)

func TestBuildMessage(t *testing.T) {
	event := models.NewPaymentAuthorized(
		time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC),
		"corr-1",
		"pay-1",
		"auth-1",
		models.InstallmentBreakdown{
			Installments:           12,
			PrincipalCents:         1000,
			InterestCents:          100,
			TotalCents:             1100,
			InstallmentAmountCents: 92,
		},
	)

	msg, err := buildMessage("payment.authorized", event.Key(), event)
	require.NoError(t, err)
	require.Equal(t, "payment.authorized", msg.Topic)
	require.Equal(t, []byte("pay-1"), msg.Key)

	var decoded models.PaymentAuthorized
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	require.Equal(t, event.EventID, decoded.EventID)
	require.Equal(t, event.Type, decoded.Type)
	require.Equal(t, event.PaymentID, decoded.PaymentID)
	require.Equal(t, event.AuthCode, decoded.AuthCode)
	require.Equal(t, event.InstallmentAmountCents, decoded.InstallmentAmountCents)
	require.True(t, event.OccurredAt.Equal(decoded.OccurredAt))
}

func TestBuildMessage_DeclinedOmitsEmptyCorrelation(t *testing.T) {
	event := models.NewPaymentDeclined(time.Now().UTC(), "", "pay-2", models.ReasonRiskRejected)

	msg, err := buildMessage("payment.declined", event.Key(), event)
	require.NoError(t, err)
	require.Equal(t, []byte("pay-2"), msg.Key)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &raw))
	require.NotContains(t, raw, "correlationId")
	require.Equal(t, models.ReasonRiskRejected, raw["reason"])
	require.Equal(t, models.TypePaymentDeclined, raw["type"])
}
