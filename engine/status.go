package engine

import (
	"familyledger/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PercentageUsed is spent/amount*100, or 0 when amount is not positive.
func PercentageUsed(spent, amount decimal.Decimal) float64 {
	if !amount.IsPositive() {
		return 0
	}
	return spent.Mul(hundred).Div(amount).InexactFloat64()
}

// StatusFor places pct on the ladder safe < normal < warning < exceeded.
func StatusFor(pct float64, threshold int) models.BudgetStatus {
	switch {
	case pct >= 100:
		return models.BudgetStatusExceeded
	case pct >= float64(threshold) && pct > 0:
		return models.BudgetStatusWarning
	case pct >= 50:
		return models.BudgetStatusNormal
	default:
		return models.BudgetStatusSafe
	}
}

// Derive recomputes every cached field of b from spent and reports whether
// any of them changed.
func Derive(b *models.Budget, spent decimal.Decimal) bool {
	spent = spent.Round(2)
	remaining := b.Amount.Sub(spent)
	pct := PercentageUsed(spent, b.Amount)
	status := StatusFor(pct, b.Threshold())

	changed := !b.Spent.Equal(spent) ||
		!b.Remaining.Equal(remaining) ||
		b.PercentageUsed != pct ||
		b.Status != status

	b.Spent = spent
	b.Remaining = remaining
	b.PercentageUsed = pct
	b.Status = status
	return changed
}

// escalated reports whether moving from prev to next should raise an alert.
func escalated(prev, next models.BudgetStatus) bool {
	return next.Rank() > prev.Rank() && next.Rank() >= models.BudgetStatusWarning.Rank()
}
