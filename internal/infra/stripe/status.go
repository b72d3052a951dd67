// Package stripe adapts Stripe objects to the billing domain.
package stripe

import (
	"strings"

	stripego "github.com/stripe/stripe-go/v75"

	"web3builder/internal/domain/billing"
)

// Configure sets the API key used by every stripe-go call and reports
// whether Stripe is usable.
func Configure(secretKey string) bool {
	secretKey = strings.TrimSpace(secretKey)
	if secretKey == "" {
		return false
	}
	stripego.Key = secretKey
	return true
}

// PaymentStatus maps a checkout session onto billing payment statuses.
func PaymentStatus(s *stripego.CheckoutSession) string {
	if s == nil {
		return billing.PaymentPending
	}
	if s.Status == stripego.CheckoutSessionStatusExpired {
		return billing.PaymentFailed
	}
	switch s.PaymentStatus {
	case stripego.CheckoutSessionPaymentStatusPaid,
		stripego.CheckoutSessionPaymentStatusNoPaymentRequired:
		return billing.PaymentCompleted
	default:
		return billing.PaymentPending
	}
}

// MajorUnits converts a Stripe amount in minor units (cents) to major units.
func MajorUnits(amount int64) float64 {
	return float64(amount) / 100.0
}

// Currency upper-cases a Stripe currency code the way plans store it.
func Currency(c stripego.Currency) string {
	return strings.ToUpper(string(c))
}
