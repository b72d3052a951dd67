package billingapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"web3builder/database"
	"web3builder/internal/api/respond"
	"web3builder/internal/domain/billing"
	"web3builder/internal/domain/plans"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /payments
func GetPaymentHistory(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}

	var payments []billing.Payment
	if err := database.DB.
		Preload("Plan").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		slog.Error("load payments", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	c.JSON(http.StatusOK, payments)
}

type cryptoPaymentInput struct {
	PlanID          string `json:"plan_id" binding:"required"`
	TransactionHash string `json:"transaction_hash" binding:"required"`
	Blockchain      string `json:"blockchain"`
}

// POST /payments/crypto
// Records an on-chain payment for a plan. It stays pending until an admin
// confirms the transaction.
func SubmitCryptoPayment(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}

	var in cryptoPaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plan_id and transaction_hash are required"})
		return
	}

	var plan plans.SubscriptionPlan
	if err := database.DB.First(&plan, "id = ?", in.PlanID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan"})
		return
	}

	chain := strings.ToLower(strings.TrimSpace(in.Blockchain))
	if chain == "" {
		chain = plan.Blockchain
	}
	hash, err := billing.NormalizeTxHash(chain, in.TransactionHash)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction hash"})
		return
	}

	payment := billing.Payment{
		UserID:          userID,
		PlanID:          plan.ID,
		Amount:          plan.Price,
		Currency:        plan.Currency,
		Blockchain:      chain,
		Status:          billing.PaymentPending,
		TransactionHash: &hash,
	}
	if err := database.DB.Create(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Transaction already submitted"})
			return
		}
		slog.Error("create payment", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}
	payment.Plan = &plan

	c.JSON(http.StatusCreated, payment)
}
