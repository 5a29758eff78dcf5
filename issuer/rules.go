package issuer

import "github.com/tigelah/issuer-simulator/issuer/models"

// AuthCodeApproved is the sentinel issuer network approval code returned for
// every approved authorization.
const AuthCodeApproved = "ISSUER_OK"

// Rules is the issuer-side rule engine: a pure function of the amount, the
// upstream risk verdict and the configured ceiling.
type Rules struct {
	MaxAmountCents int64
}

func (r Rules) Authorize(amountCents int64, riskApproved bool) models.IssuerDecision {
	if !riskApproved {
		return models.MustIssuerDeclined(models.ReasonRiskRejected)
	}
	if amountCents <= 0 {
		return models.MustIssuerDeclined(models.ReasonAmountInvalid)
	}
	if amountCents > r.MaxAmountCents {
		return models.MustIssuerDeclined(models.ReasonAmountExceeded)
	}
	return models.MustIssuerApproved(AuthCodeApproved)
}
