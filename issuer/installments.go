package issuer

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/tigelah/issuer-simulator/issuer/models"
)

var (
	ErrInvalidInstallments      = errors.New(models.ReasonInvalidInstallments)
	ErrInstallmentsNotSupported = errors.New(models.ReasonInstallmentsNotSupported)
)

// WildcardMerchant keys the fallback rate table used when a merchant has no
// table of its own.
const WildcardMerchant = "*"

// RateTable maps an installment count to the interest rate for that plan.
type RateTable map[int]decimal.Decimal

// InstallmentCalculator computes the financial breakdown of an approved
// amount. Plans and rates are copied at construction and never mutated at
// request time.
type InstallmentCalculator struct {
	allowedPlans  map[int]struct{}
	merchantRates map[string]RateTable
}

func NewInstallmentCalculator(allowedPlans []int, merchantRates map[string]RateTable) *InstallmentCalculator {
	plans := make(map[int]struct{}, len(allowedPlans))
	for _, p := range allowedPlans {
		plans[p] = struct{}{}
	}
	rates := make(map[string]RateTable, len(merchantRates))
	for merchant, table := range merchantRates {
		copied := make(RateTable, len(table))
		for n, rate := range table {
			copied[n] = rate
		}
		rates[merchant] = copied
	}
	return &InstallmentCalculator{allowedPlans: plans, merchantRates: rates}
}

// Calculate resolves the plan and rate for merchantID and returns the
// breakdown. A count <= 0 is normalized to 1; a 1-installment plan carries no
// interest and skips the rate lookup entirely.
func (c *InstallmentCalculator) Calculate(merchantID string, amountCents int64, installments int) (models.InstallmentBreakdown, error) {
	if installments <= 0 {
		installments = 1
	}
	if _, ok := c.allowedPlans[installments]; !ok {
		return models.InstallmentBreakdown{}, ErrInvalidInstallments
	}
	if installments == 1 {
		return models.InstallmentBreakdown{
			Installments:           1,
			PrincipalCents:         amountCents,
			TotalCents:             amountCents,
			InstallmentAmountCents: amountCents,
		}, nil
	}

	rate, err := c.rateFor(merchantID, installments)
	if err != nil {
		return models.InstallmentBreakdown{}, err
	}

	// Half-up to the nearest cent: decimal.Round ties away from zero, so no
	// binary floating point drift can reach the breakdown.
	interest := decimal.NewFromInt(amountCents).Mul(rate).Round(0).IntPart()
	total := amountCents + interest

	// Ceiling division. The rounding remainder is intentionally not
	// redistributed onto a specific installment.
	installmentAmount := (total + int64(installments) - 1) / int64(installments)

	return models.InstallmentBreakdown{
		Installments:           installments,
		PrincipalCents:         amountCents,
		InterestCents:          interest,
		TotalCents:             total,
		InstallmentAmountCents: installmentAmount,
	}, nil
}

// rateFor resolves the merchant table, falling back to the wildcard table
// only when the merchant has no table at all.
func (c *InstallmentCalculator) rateFor(merchantID string, installments int) (decimal.Decimal, error) {
	table, ok := c.merchantRates[merchantID]
	if !ok {
		table, ok = c.merchantRates[WildcardMerchant]
	}
	if !ok {
		return decimal.Decimal{}, ErrInstallmentsNotSupported
	}
	rate, ok := table[installments]
	if !ok {
		return decimal.Decimal{}, ErrInstallmentsNotSupported
	}
	return rate, nil
}
