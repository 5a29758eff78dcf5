package models

import (
	"time"

	"github.com/google/uuid"
)

// Event type discriminators used on inbound and outbound envelopes.
const (
	TypeRiskApproved      = "risk.approved"
	TypeRiskRejected      = "risk.rejected"
	TypePaymentAuthorized = "payment.authorized"
	TypePaymentDeclined   = "payment.declined"
)

// Decline reason codes. These are consumed by downstream systems; their
// values are a contract and must not change.
const (
	ReasonRiskRejected             = "risk_rejected"
	ReasonAmountInvalid            = "amount_invalid"
	ReasonAmountExceeded           = "amount_exceeded"
	ReasonAccountRequired          = "account_required"
	ReasonInsufficientFunds        = "insufficient_funds"
	ReasonLimitExceeded            = "limit_exceeded"
	ReasonInvalidInstallments      = "invalid_installments"
	ReasonInstallmentsNotSupported = "installments_not_supported"
)

// AuthorizationRequest is the decoded input to the pipeline. The raw PAN
// never appears here; cardholder identity is carried as a one-way hash.
type AuthorizationRequest struct {
	PaymentID     string
	CorrelationID string
	RiskApproved  bool
	AmountCents   int64
	MerchantID    string
	Installments  int
	AccountID     string
	UserID        string
	PANHash       string
}

// Event is a terminal pipeline outcome ready for emission.
type Event interface {
	EventType() string
	// Key is the partitioning key for the outbound stream.
	Key() string
}

type PaymentAuthorized struct {
	EventID                string    `json:"eventId"`
	OccurredAt             time.Time `json:"occurredAt"`
	CorrelationID          string    `json:"correlationId,omitempty"`
	Type                   string    `json:"type"`
	PaymentID              string    `json:"paymentId"`
	AuthCode               string    `json:"authCode"`
	Installments           int       `json:"installments"`
	InterestCents          int64     `json:"interestCents"`
	TotalCents             int64     `json:"totalCents"`
	InstallmentAmountCents int64     `json:"installmentAmountCents"`
}

func NewPaymentAuthorized(occurredAt time.Time, correlationID, paymentID, authCode string, breakdown InstallmentBreakdown) PaymentAuthorized {
	return PaymentAuthorized{
		EventID:                uuid.New().String(),
		OccurredAt:             occurredAt,
		CorrelationID:          correlationID,
		Type:                   TypePaymentAuthorized,
		PaymentID:              paymentID,
		AuthCode:               authCode,
		Installments:           breakdown.Installments,
		InterestCents:          breakdown.InterestCents,
		TotalCents:             breakdown.TotalCents,
		InstallmentAmountCents: breakdown.InstallmentAmountCents,
	}
}

func (e PaymentAuthorized) EventType() string { return e.Type }
func (e PaymentAuthorized) Key() string       { return e.PaymentID }

type PaymentDeclined struct {
	EventID       string    `json:"eventId"`
	OccurredAt    time.Time `json:"occurredAt"`
	CorrelationID string    `json:"correlationId,omitempty"`
	Type          string    `json:"type"`
	PaymentID     string    `json:"paymentId"`
	Reason        string    `json:"reason"`
}

func NewPaymentDeclined(occurredAt time.Time, correlationID, paymentID, reason string) PaymentDeclined {
	return PaymentDeclined{
		EventID:       uuid.New().String(),
		OccurredAt:    occurredAt,
		CorrelationID: correlationID,
		Type:          TypePaymentDeclined,
		PaymentID:     paymentID,
		Reason:        reason,
	}
}

func (e PaymentDeclined) EventType() string { return e.Type }
func (e PaymentDeclined) Key() string       { return e.PaymentID }
