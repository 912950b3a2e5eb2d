package service

import (
	"context"

	"github.com/quipay/keysmith/internal/errors"
	rotationDomain "github.com/quipay/keysmith/internal/rotation/domain"
	"github.com/quipay/keysmith/internal/rotation/usecase"
)

// MultiNotifier fans an event out to several notifiers.
type MultiNotifier struct {
	notifiers []usecase.Notifier
}

// NewMultiNotifier creates a MultiNotifier. Nil notifiers are skipped.
func NewMultiNotifier(notifiers ...usecase.Notifier) *MultiNotifier {
	kept := make([]usecase.Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			kept = append(kept, n)
		}
	}
	return &MultiNotifier{notifiers: kept}
}

// NotifyRotation calls every notifier and joins their errors.
func (m *MultiNotifier) NotifyRotation(ctx context.Context, event rotationDomain.RotationEvent) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.NotifyRotation(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
