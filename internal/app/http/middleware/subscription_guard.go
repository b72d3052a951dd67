package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"web3builder/database"
	"web3builder/internal/domain/access"
	"web3builder/internal/domain/billing"

	"github.com/gin-gonic/gin"
)

const policyKey = "access_policy"

// LoadAccessPolicy computes the caller's access policy from their
// subscriptions and stores it on the context. Must run after AuthMiddleware.
func LoadAccessPolicy() gin.HandlerFunc {
	return func(c *gin.Context) {
		subs, err := billing.LoadSubscriptions(database.DB, c.GetString("user_id"))
		if err != nil {
			slog.Error("load subscriptions", "error", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to load subscription"})
			return
		}
		c.Set(policyKey, access.ComputePolicy(time.Now(), subs))
		c.Next()
	}
}

// Policy returns the policy set by LoadAccessPolicy, or the free policy.
func Policy(c *gin.Context) access.Policy {
	if v, ok := c.Get(policyKey); ok {
		if p, ok := v.(access.Policy); ok {
			return p
		}
	}
	return access.ComputePolicy(time.Now(), nil)
}

// RequireCapability rejects callers whose policy lacks capability.
func RequireCapability(capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Policy(c).Can(capability) {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
				"error":      "Upgrade required",
				"capability": capability,
			})
			return
		}
		c.Next()
	}
}
