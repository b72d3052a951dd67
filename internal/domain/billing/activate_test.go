package billing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"web3builder/internal/domain/billing"
	"web3builder/internal/domain/plans"
	"web3builder/internal/domain/referrals"
	"web3builder/internal/testutil"
)

func TestActivate(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	days := 30
	plan := plans.SubscriptionPlan{Name: "Pro", Price: 50, Tier: plans.TierPro, DurationDays: &days}
	require.NoError(t, db.Create(&plan).Error)

	hash := "0x" + "ab"
	payment := billing.Payment{UserID: "payer", PlanID: plan.ID, Amount: 50, Currency: "USDC", Blockchain: "ethereum", TransactionHash: &hash}
	require.NoError(t, db.Create(&payment).Error)

	ref := referrals.Referral{ReferrerID: "referrer", ReferredID: "payer"}
	require.NoError(t, db.Create(&ref).Error)

	var sub *billing.UserSubscription
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		sub, err = billing.Activate(tx, payment.ID, now)
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, "payer", sub.UserID)
	require.NotNil(t, sub.EndDate)
	assert.Equal(t, now.AddDate(0, 0, 30), sub.EndDate.UTC())

	var stored billing.Payment
	require.NoError(t, db.First(&stored, "id = ?", payment.ID).Error)
	assert.Equal(t, billing.PaymentCompleted, stored.Status)

	var completed referrals.Referral
	require.NoError(t, db.First(&completed, "id = ?", ref.ID).Error)
	assert.Equal(t, referrals.StatusCompleted, completed.Status)
	require.NotNil(t, completed.CommissionAmount)
	assert.Equal(t, 5.0, *completed.CommissionAmount)

	subs, err := billing.LoadSubscriptions(db, "payer")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.NotNil(t, subs[0].Plan)
	assert.Equal(t, "Pro", subs[0].Plan.Name)

	t.Run("second activation is rejected", func(t *testing.T) {
		_, err := billing.Activate(db, payment.ID, now)
		assert.ErrorIs(t, err, billing.ErrPaymentNotPending)
	})
}
