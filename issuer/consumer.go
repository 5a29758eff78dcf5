package issuer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"github.com/tigelah/issuer-simulator/internal/cardsec"
	"github.com/tigelah/issuer-simulator/issuer/models"
)

// ErrDropped reports an envelope that was discarded before the pipeline ran:
// unparseable payload, missing payment id, or an unknown event type. Dropped
// messages emit no event and are not retried.
var ErrDropped = errors.New("envelope dropped")

// riskEvaluatedEvent is the inbound envelope published by the risk service.
type riskEvaluatedEvent struct {
	EventID       string `json:"eventId"`
	CorrelationID string `json:"correlationId"`
	Type          string `json:"type"`
	PaymentID     string `json:"paymentId"`
	Approved      *bool  `json:"approved"`
	Reason        string `json:"reason"`
	AmountCents   int64  `json:"amountCents"`
	MerchantID    string `json:"merchantId"`
	Installments  int    `json:"installments"`
	AccountID     string `json:"accountId"`
	UserID        string `json:"userId"`
	PANHash       string `json:"panHash"`
	PAN           string `json:"pan"`
}

// Handler decodes inbound risk-evaluation envelopes and drives the pipeline.
// It is transport-agnostic: the Kafka consumer and the dev HTTP endpoint both
// feed raw payloads through it.
type Handler struct {
	authorizer *Authorizer
	logger     *slog.Logger
}

func NewHandler(authorizer *Authorizer, logger *slog.Logger) *Handler {
	return &Handler{authorizer: authorizer, logger: logger}
}

// Process runs one raw envelope through the pipeline and returns the emitted
// event. Drops are reported as ErrDropped; any other error is an
// infrastructure failure with no event emitted.
func (h *Handler) Process(ctx context.Context, payload []byte) (models.Event, error) {
	var evt riskEvaluatedEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		messagesDropped.Inc()
		h.logger.Warn("dropping unparseable envelope", "err", err)
		return nil, ErrDropped
	}

	logger := h.logger
	if evt.CorrelationID != "" {
		logger = logger.With(slog.String("correlationId", evt.CorrelationID))
	}

	if _, err := uuid.Parse(evt.PaymentID); err != nil {
		messagesDropped.Inc()
		logger.Warn("dropping envelope without payment id", slog.String("type", evt.Type))
		return nil, ErrDropped
	}

	req, ok := evt.toRequest()
	if !ok {
		messagesDropped.Inc()
		logger.Warn("dropping unknown event type",
			slog.String("type", evt.Type),
			slog.String("paymentId", evt.PaymentID))
		return nil, ErrDropped
	}

	event, err := h.authorizer.Authorize(ctx, req)
	if err != nil {
		pipelineFailures.Inc()
		logger.Error("authorization pipeline failed", slog.String("paymentId", evt.PaymentID), "err", err)
		return nil, err
	}
	return event, nil
}

// HandleMessage is the transport entrypoint. Drops resolve to nil so the
// transport commits them; infrastructure failures propagate so the transport
// can apply its own redelivery policy.
func (h *Handler) HandleMessage(ctx context.Context, payload []byte) error {
	_, err := h.Process(ctx, payload)
	if errors.Is(err, ErrDropped) {
		return nil
	}
	return err
}

func (e riskEvaluatedEvent) toRequest() (models.AuthorizationRequest, bool) {
	riskApproved := false
	switch e.Type {
	case models.TypeRiskApproved:
		// The verdict flag defaults to true when the approved topic omits it.
		riskApproved = e.Approved == nil || *e.Approved
	case models.TypeRiskRejected:
	default:
		return models.AuthorizationRequest{}, false
	}

	// Derive the card hash before anything downstream sees the raw PAN; the
	// raw value is never forwarded or logged.
	panHash := e.PANHash
	if strings.TrimSpace(panHash) == "" && strings.TrimSpace(e.PAN) != "" {
		panHash = cardsec.HashPAN(e.PAN)
	}

	return models.AuthorizationRequest{
		PaymentID:     e.PaymentID,
		CorrelationID: e.CorrelationID,
		RiskApproved:  riskApproved,
		AmountCents:   e.AmountCents,
		MerchantID:    e.MerchantID,
		Installments:  e.Installments,
		AccountID:     e.AccountID,
		UserID:        e.UserID,
		PANHash:       panHash,
	}, true
}
