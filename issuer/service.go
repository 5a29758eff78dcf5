package issuer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"github.com/tigelah/issuer-simulator/issuer/models"
)

// EventPublisher emits terminal pipeline events to the outbound stream.
type EventPublisher interface {
	PublishAuthorized(ctx context.Context, event models.PaymentAuthorized) error
	PublishDeclined(ctx context.Context, event models.PaymentDeclined) error
}

// Authorizer sequences the rule engine, the limits check and the installment
// calculation into one terminal decision per request. It is the only
// component that builds outbound events, and it emits exactly one per run.
type Authorizer struct {
	rules        Rules
	limits       *LimitsChecker
	installments *InstallmentCalculator
	publisher    EventPublisher
	logger       *slog.Logger
	now          func() time.Time
}

func NewAuthorizer(rules Rules, limits *LimitsChecker, installments *InstallmentCalculator, publisher EventPublisher, logger *slog.Logger) *Authorizer {
	return &Authorizer{
		rules:        rules,
		limits:       limits,
		installments: installments,
		publisher:    publisher,
		logger:       logger,
		now:          time.Now,
	}
}

// Authorize runs the pipeline for one request. A returned error is an
// infrastructure failure and guarantees that no event was emitted; business
// declines are not errors.
func (a *Authorizer) Authorize(ctx context.Context, req models.AuthorizationRequest) (models.Event, error) {
	logger := a.logger.With(slog.String("paymentId", req.PaymentID))
	if req.CorrelationID != "" {
		logger = logger.With(slog.String("correlationId", req.CorrelationID))
	}

	if !req.RiskApproved {
		return a.decline(ctx, logger, req, models.ReasonRiskRejected)
	}

	issuerDecision := a.rules.Authorize(req.AmountCents, req.RiskApproved)
	if !issuerDecision.Approved() {
		return a.decline(ctx, logger, req, issuerDecision.Reason())
	}

	// A limits check is required from here on, so the account must identify.
	if _, err := uuid.Parse(req.AccountID); err != nil {
		return a.decline(ctx, logger, req, models.ReasonAccountRequired)
	}

	limitDecision, err := a.limits.Check(ctx, req.AccountID, req.AmountCents, req.UserID, req.PANHash)
	if err != nil {
		return nil, fmt.Errorf("checking limits: %w", err)
	}
	if !limitDecision.Authorized() {
		return a.decline(ctx, logger, req, limitDecision.Reason())
	}

	breakdown, err := a.installments.Calculate(req.MerchantID, req.AmountCents, req.Installments)
	if err != nil {
		reason := installmentsDeclineReason(err)
		logger.Info("installments rejected",
			slog.Int("installments", req.Installments),
			slog.String("reason", reason))
		return a.decline(ctx, logger, req, reason)
	}

	event := models.NewPaymentAuthorized(a.now(), req.CorrelationID, req.PaymentID, limitDecision.AuthCode(), breakdown)
	if err := a.publisher.PublishAuthorized(ctx, event); err != nil {
		return nil, fmt.Errorf("publishing authorized event: %w", err)
	}
	paymentsAuthorized.Inc()
	logger.Info("payment authorized",
		slog.Int("installments", breakdown.Installments),
		slog.Int64("totalCents", breakdown.TotalCents),
		slog.Int64("interestCents", breakdown.InterestCents))
	return event, nil
}

func (a *Authorizer) decline(ctx context.Context, logger *slog.Logger, req models.AuthorizationRequest, reason string) (models.Event, error) {
	event := models.NewPaymentDeclined(a.now(), req.CorrelationID, req.PaymentID, reason)
	if err := a.publisher.PublishDeclined(ctx, event); err != nil {
		return nil, fmt.Errorf("publishing declined event: %w", err)
	}
	paymentsDeclined.WithLabelValues(reason).Inc()
	logger.Info("payment declined", slog.String("reason", reason))
	return event, nil
}

// installmentsDeclineReason maps calculator failures to stable reason codes.
// Anything other than the two named failures collapses to
// invalid_installments so internal error text never reaches the stream.
func installmentsDeclineReason(err error) string {
	switch {
	case errors.Is(err, ErrInstallmentsNotSupported):
		return models.ReasonInstallmentsNotSupported
	case errors.Is(err, ErrInvalidInstallments):
		return models.ReasonInvalidInstallments
	default:
		return models.ReasonInvalidInstallments
	}
}
