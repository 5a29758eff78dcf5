package models

// InstallmentBreakdown is the financial breakdown for an approved amount.
// TotalCents is always PrincipalCents + InterestCents, and
// InstallmentAmountCents is the ceiling of TotalCents / Installments.
type InstallmentBreakdown struct {
	Installments           int
	PrincipalCents         int64
	InterestCents          int64
	TotalCents             int64
	InstallmentAmountCents int64
}
