package stripewebhooks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"web3builder/database"
	"web3builder/internal/cache"
	"web3builder/internal/domain/billing"
	stripeinfra "web3builder/internal/infra/stripe"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

// handleCheckoutSession settles the payment recorded when the checkout was
// created. Redelivered events for a settled payment are no-ops.
func handleCheckoutSession(ctx context.Context, session *stripe.CheckoutSession) error {
	if session.ID == "" {
		return errors.New("checkout session missing id")
	}

	var payment billing.Payment
	q := database.DB.WithContext(ctx).Where("stripe_session_id = ?", session.ID)
	if id := session.Metadata["payment_id"]; id != "" {
		q = database.DB.WithContext(ctx).Where("stripe_session_id = ? OR id = ?", session.ID, id)
	}
	if err := q.First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// not one of ours, nothing to retry
			slog.Warn("checkout session without payment", "session_id", session.ID)
			return nil
		}
		return fmt.Errorf("load payment: %w", err)
	}

	switch stripeinfra.PaymentStatus(session) {
	case billing.PaymentCompleted:
		err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			_, err := billing.Activate(tx, payment.ID, time.Now())
			return err
		})
		if errors.Is(err, billing.ErrPaymentNotPending) {
			return nil
		}
		if err != nil {
			return err
		}
		cache.Sites.InvalidateOwner(ctx, database.DB, payment.UserID)
		return nil

	case billing.PaymentFailed:
		return database.DB.WithContext(ctx).
			Model(&billing.Payment{}).
			Where("id = ? AND status = ?", payment.ID, billing.PaymentPending).
			Update("status", billing.PaymentFailed).Error
	}

	// still unpaid: async methods settle with a later event
	return nil
}
