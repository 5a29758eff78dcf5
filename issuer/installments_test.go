package issuer_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tigelah/issuer-simulator/issuer"
)

func rates(tables map[string]map[int]string) map[string]issuer.RateTable {
	out := make(map[string]issuer.RateTable, len(tables))
	for merchant, table := range tables {
		rt := make(issuer.RateTable, len(table))
		for n, rate := range table {
			rt[n] = decimal.RequireFromString(rate)
		}
		out[merchant] = rt
	}
	return out
}

func TestCalculate_NormalizesNonPositiveCountToOne(t *testing.T) {
	calc := issuer.NewInstallmentCalculator([]int{1, 2, 6, 12}, rates(map[string]map[int]string{
		"*": {2: "0.10"},
	}))

	for _, installments := range []int{0, -10} {
		b, err := calc.Calculate("m1", 1000, installments)
		require.NoError(t, err)
		require.Equal(t, 1, b.Installments)
		require.Equal(t, int64(0), b.InterestCents)
		require.Equal(t, int64(1000), b.TotalCents)
		require.Equal(t, int64(1000), b.InstallmentAmountCents)
	}
}

func TestCalculate_SingleInstallmentHasNoInterest(t *testing.T) {
	calc := issuer.NewInstallmentCalculator([]int{1, 2, 6, 12}, rates(map[string]map[int]string{
		"*": {2: "0.02"},
	}))

	b, err := calc.Calculate("m1", 1234, 1)
	require.NoError(t, err)
	require.Equal(t, 1, b.Installments)
	require.Equal(t, int64(1234), b.PrincipalCents)
	require.Equal(t, int64(0), b.InterestCents)
	require.Equal(t, int64(1234), b.TotalCents)
	require.Equal(t, int64(1234), b.InstallmentAmountCents)
}

func TestCalculate_PlanNotAllowListed(t *testing.T) {
	calc := issuer.NewInstallmentCalculator([]int{1, 2, 6, 12}, rates(map[string]map[int]string{
		"*": {2: "0.02", 5: "0.05"},
	}))

	_, err := calc.Calculate("m1", 1000, 5)
	require.ErrorIs(t, err, issuer.ErrInvalidInstallments)
}

func TestCalculate_MerchantRateOverridesWildcard(t *testing.T) {
	calc := issuer.NewInstallmentCalculator([]int{1, 2, 6, 12}, rates(map[string]map[int]string{
		"m1": {12: "0.10"},
		"*":  {12: "0.12"},
	}))

	b, err := calc.Calculate("m1", 1000, 12)
	require.NoError(t, err)
	require.Equal(t, 12, b.Installments)
	require.Equal(t, int64(1000), b.PrincipalCents)
	require.Equal(t, int64(100), b.InterestCents)
	require.Equal(t, int64(1100), b.TotalCents)
	require.Equal(t, int64(92), b.InstallmentAmountCents)
}

func TestCalculate_UnknownMerchantFallsBackToWildcard(t *testing.T) {
	calc := issuer.NewInstallmentCalculator([]int{1, 2, 6, 12}, rates(map[string]map[int]string{
		"*": {6: "0.06"},
	}))

	b, err := calc.Calculate("unknown-merchant", 1000, 6)
	require.NoError(t, err)
	require.Equal(t, int64(60), b.InterestCents)
	require.Equal(t, int64(1060), b.TotalCents)
	require.Equal(t, int64(177), b.InstallmentAmountCents)
}

func TestCalculate_NoRateResolvable(t *testing.T) {
	t.Run("no merchant table and no wildcard", func(t *testing.T) {
		calc := issuer.NewInstallmentCalculator([]int{1, 2, 6, 12}, rates(map[string]map[int]string{
			"m1": {2: "0.02"},
		}))

		_, err := calc.Calculate("m2", 1000, 2)
		require.ErrorIs(t, err, issuer.ErrInstallmentsNotSupported)
	})

	t.Run("wildcard missing the plan", func(t *testing.T) {
		calc := issuer.NewInstallmentCalculator([]int{1, 2, 6, 12}, rates(map[string]map[int]string{
			"*": {2: "0.02"},
		}))

		_, err := calc.Calculate("m1", 1000, 6)
		require.ErrorIs(t, err, issuer.ErrInstallmentsNotSupported)
	})
}

func TestCalculate_HalfUpRounding(t *testing.T) {
	// 333 * 0.015 = 4.995, which must round half-up to 5 cents.
	calc := issuer.NewInstallmentCalculator([]int{1, 2, 6, 12}, rates(map[string]map[int]string{
		"*": {2: "0.015"},
	}))

	b, err := calc.Calculate("m1", 333, 2)
	require.NoError(t, err)
	require.Equal(t, int64(5), b.InterestCents)
	require.Equal(t, int64(338), b.TotalCents)
	require.Equal(t, int64(169), b.InstallmentAmountCents)
}

func TestCalculate_CeilingProperty(t *testing.T) {
	calc := issuer.NewInstallmentCalculator([]int{1, 2, 6, 12}, rates(map[string]map[int]string{
		"*": {2: "0.020", 6: "0.060", 12: "0.120"},
	}))

	amounts := []int64{1, 99, 333, 1000, 12345, 999_999}
	for _, amount := range amounts {
		for _, installments := range []int{2, 6, 12} {
			b, err := calc.Calculate("any", amount, installments)
			require.NoError(t, err)

			require.Equal(t, b.PrincipalCents+b.InterestCents, b.TotalCents)
			require.GreaterOrEqual(t, b.InstallmentAmountCents*int64(installments), b.TotalCents)
			require.Less(t, (b.InstallmentAmountCents-1)*int64(installments), b.TotalCents)
		}
	}
}
