package plansapi

import (
	"net/http"

	"web3builder/database"
	"web3builder/internal/domain/plans"

	"github.com/gin-gonic/gin"
)

// GET /plans
func ListPlans(c *gin.Context) {
	var list []plans.SubscriptionPlan
	if err := database.DB.
		Order("price ASC").
		Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plans"})
		return
	}

	c.JSON(http.StatusOK, list)
}
