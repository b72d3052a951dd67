package plansapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"web3builder/config"
	"web3builder/database"
	"web3builder/internal/domain/plans"
	stripeinfra "web3builder/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/price"
	"gorm.io/gorm"
)

// listPrices is swapped in tests.
var listPrices = func() ([]*stripe.Price, error) {
	params := &stripe.PriceListParams{}
	params.Active = stripe.Bool(true)
	params.Type = stripe.String(string(stripe.PriceTypeOneTime))
	params.AddExpand("data.product")

	var out []*stripe.Price
	it := price.List(params)
	for it.Next() {
		out = append(out, it.Price())
	}
	return out, it.Err()
}

// planFromPrice maps a one-time Stripe price onto a plan. Price metadata may
// carry plan, tier, blockchain and duration_days; prices marked
// visible=false are skipped.
func planFromPrice(p *stripe.Price) (plans.SubscriptionPlan, bool) {
	if p == nil || !p.Active || p.Product == nil || !p.Product.Active {
		return plans.SubscriptionPlan{}, false
	}
	meta := p.Metadata
	if meta == nil {
		meta = map[string]string{}
	}
	if meta["visible"] == "false" {
		return plans.SubscriptionPlan{}, false
	}

	name := p.Product.Name
	if v := strings.TrimSpace(meta["plan"]); v != "" {
		name = v
	}
	tier := plans.TierPro
	if v := strings.ToLower(strings.TrimSpace(meta["tier"])); v == plans.TierFree || v == plans.TierPro {
		tier = v
	}
	chain := "ethereum"
	if v := strings.ToLower(strings.TrimSpace(meta["blockchain"])); v != "" {
		chain = v
	}

	priceID := p.ID
	plan := plans.SubscriptionPlan{
		Name:          name,
		Price:         stripeinfra.MajorUnits(p.UnitAmount),
		Currency:      stripeinfra.Currency(p.Currency),
		Blockchain:    chain,
		StripePriceID: &priceID,
		Tier:          tier,
		IsOneTime:     true,
	}
	if p.Product.Description != "" {
		desc := p.Product.Description
		plan.Description = &desc
	}
	if d, err := strconv.Atoi(meta["duration_days"]); err == nil && d > 0 {
		plan.DurationDays = &d
		plan.IsOneTime = false
	}
	return plan, true
}

// POST /admin/sync-plans
func SyncPlansFromStripe(c *gin.Context) {
	if !stripeinfra.Configure(config.STRIPE_SECRET_KEY) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Stripe key not configured"})
		return
	}

	prices, err := listPrices()
	if err != nil {
		slog.Error("list stripe prices", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch Stripe prices"})
		return
	}

	created, updated, skipped := 0, 0, 0
	for _, p := range prices {
		plan, ok := planFromPrice(p)
		if !ok {
			skipped++
			continue
		}

		var existing plans.SubscriptionPlan
		err := database.DB.Where("stripe_price_id = ?", p.ID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := database.DB.Create(&plan).Error; err != nil {
				slog.Error("create plan", "price_id", p.ID, "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create plan"})
				return
			}
			created++
		case err != nil:
			slog.Error("load plan", "price_id", p.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plan"})
			return
		default:
			if err := database.DB.Model(&existing).Updates(map[string]interface{}{
				"name":          plan.Name,
				"description":   plan.Description,
				"price":         plan.Price,
				"currency":      plan.Currency,
				"blockchain":    plan.Blockchain,
				"tier":          plan.Tier,
				"duration_days": plan.DurationDays,
				"is_one_time":   plan.IsOneTime,
			}).Error; err != nil {
				slog.Error("update plan", "price_id", p.ID, "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update plan"})
				return
			}
			updated++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"synced":  created + updated,
		"created": created,
		"updated": updated,
		"skipped": skipped,
	})
}
