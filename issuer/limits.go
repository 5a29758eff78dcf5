package issuer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tigelah/issuer-simulator/internal/ledger"
	"github.com/tigelah/issuer-simulator/issuer/models"
)

// CreditLookup is the outbound limits/credit collaborator. It is injected so
// the checker and the orchestrator are testable without a live ledger.
type CreditLookup interface {
	AvailableCredit(ctx context.Context, accountID string) (ledger.AvailableCredit, error)
	UserLimit(ctx context.Context, userID string) (*ledger.LimitRule, error)
	PANLimit(ctx context.Context, panHash string) (*ledger.LimitRule, error)
}

// LimitsChecker decides whether an amount fits within the account's available
// credit and any configured limit rule.
type LimitsChecker struct {
	ledger CreditLookup
}

func NewLimitsChecker(lookup CreditLookup) *LimitsChecker {
	return &LimitsChecker{ledger: lookup}
}

// Check runs the limit evaluation for one request. The available-credit check
// always runs first. At most one rule applies: user scope when a user id was
// supplied, otherwise card-hash scope. Errors are infrastructure failures and
// never carry a business decision.
func (c *LimitsChecker) Check(ctx context.Context, accountID string, amountCents int64, userID, panHash string) (models.LimitDecision, error) {
	credit, err := c.ledger.AvailableCredit(ctx, accountID)
	if err != nil {
		return models.LimitDecision{}, fmt.Errorf("fetching available credit: %w", err)
	}
	if amountCents > credit.AvailableCents {
		return models.MustLimitDeclined(models.ReasonInsufficientFunds), nil
	}

	var rule *ledger.LimitRule
	if strings.TrimSpace(userID) != "" {
		rule, err = c.ledger.UserLimit(ctx, userID)
		if err != nil {
			return models.LimitDecision{}, fmt.Errorf("fetching user limit: %w", err)
		}
	}
	if rule == nil && strings.TrimSpace(panHash) != "" {
		rule, err = c.ledger.PANLimit(ctx, panHash)
		if err != nil {
			return models.LimitDecision{}, fmt.Errorf("fetching pan limit: %w", err)
		}
	}

	if rule != nil {
		// Fixed evaluation order; a non-positive ceiling means the dimension
		// is not configured. The first exceeded ceiling declines.
		for _, ceiling := range []int64{rule.CreditLimitCents, rule.DailyLimitCents, rule.MonthlyLimitCents} {
			if ceiling > 0 && amountCents > ceiling {
				return models.MustLimitDeclined(models.ReasonLimitExceeded), nil
			}
		}
	}

	return models.MustLimitApproved(uuid.New().String()), nil
}
