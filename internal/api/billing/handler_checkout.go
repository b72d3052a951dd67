package billingapi

import (
	"log/slog"
	"net/http"

	"web3builder/config"
	"web3builder/database"
	"web3builder/internal/api/respond"
	"web3builder/internal/domain/billing"
	"web3builder/internal/domain/plans"
	"web3builder/internal/domain/users"
	stripeinfra "web3builder/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
)

// newCheckoutSession is swapped in tests.
var newCheckoutSession = checkoutsession.New

// POST /billing/checkout
// Starts a Stripe Checkout for a plan that has a Stripe price. The payment
// is recorded as pending and completed by the checkout webhook.
func CreateCheckoutSession(c *gin.Context) {
	var body struct {
		PlanID string `json:"plan_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid plan_id"})
		return
	}

	if !stripeinfra.Configure(config.STRIPE_SECRET_KEY) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Stripe key not configured"})
		return
	}

	userID, ok := respond.UserID(c)
	if !ok {
		return
	}

	var plan plans.SubscriptionPlan
	if err := database.DB.First(&plan, "id = ?", body.PlanID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan"})
		return
	}
	if plan.StripePriceID == nil || *plan.StripePriceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Plan is not sold through Stripe"})
		return
	}

	var user users.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}
	if !user.IsVerified {
		c.JSON(http.StatusForbidden, gin.H{"error": "Please verify your email first"})
		return
	}

	payment := billing.Payment{
		UserID:     user.ID,
		PlanID:     plan.ID,
		Amount:     plan.Price,
		Currency:   plan.Currency,
		Blockchain: "stripe",
		Status:     billing.PaymentPending,
	}
	if err := database.DB.Create(&payment).Error; err != nil {
		slog.Error("create payment", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL:    stripe.String(config.APP_URL + "/dashboard?checkout=success"),
		CancelURL:     stripe.String(config.APP_URL + "/pricing?canceled=1"),
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(user.Email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(*plan.StripePriceID), Quantity: stripe.Int64(1)},
		},
		ClientReferenceID: stripe.String(user.ID),
		Metadata: map[string]string{
			"user_id":    user.ID,
			"plan_id":    plan.ID,
			"payment_id": payment.ID,
		},
	}

	s, err := newCheckoutSession(params)
	if err != nil {
		slog.Error("create checkout session", "payment_id", payment.ID, "error", err)
		database.DB.Model(&payment).Update("status", billing.PaymentFailed)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create checkout session"})
		return
	}

	if err := database.DB.Model(&payment).Update("stripe_session_id", s.ID).Error; err != nil {
		slog.Error("store checkout session", "payment_id", payment.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": s.URL, "payment_id": payment.ID})
}
