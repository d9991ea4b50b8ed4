package service

import (
	"context"
	"errors"

	"familyledger/models"
)

// AlertNotifier delivers one budget alert.
type AlertNotifier interface {
	NotifyBudgetAlert(ctx context.Context, alert models.BudgetAlert) error
}

// MultiNotifier fans an alert out to every channel. All channels are tried;
// their errors are joined.
type MultiNotifier []AlertNotifier

func (m MultiNotifier) NotifyBudgetAlert(ctx context.Context, alert models.BudgetAlert) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyBudgetAlert(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
