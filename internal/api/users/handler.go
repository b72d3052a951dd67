package usersapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"web3builder/database"
	"web3builder/internal/api/respond"
	"web3builder/internal/app/http/middleware"
	"web3builder/internal/domain/users"
	"web3builder/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /me
func GetCurrentUser(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}

	var user users.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	sites, err := services.NewTemplateService(database.DB).ListUserWebsites(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, err, "Failed to load websites")
		return
	}

	now := time.Now()
	policy := middleware.Policy(c)

	c.JSON(http.StatusOK, MeResponse{
		User:     BuildUserDTO(user),
		Billing:  BuildBillingDTO(now, policy),
		Access:   BuildAccessDTO(policy, sites),
		Referral: BuildReferralDTO(user),
	})
}

type walletInput struct {
	Address    string `json:"address" binding:"required"`
	WalletType string `json:"wallet_type" binding:"required"`
	Blockchain string `json:"blockchain" binding:"required"`
}

// PUT /me/wallet
// Connects a wallet to the account. EVM addresses are stored checksummed.
func UpdateWallet(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}

	var in walletInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address, wallet_type and blockchain are required"})
		return
	}

	chain := strings.ToLower(strings.TrimSpace(in.Blockchain))
	addr, err := users.NormalizeWalletAddress(chain, in.Address)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet address"})
		return
	}
	walletType := strings.ToLower(strings.TrimSpace(in.WalletType))

	res := database.DB.Model(&users.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"wallet_address": addr,
			"wallet_type":    walletType,
			"blockchain":     chain,
			"updated_at":     time.Now(),
		})
	if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		c.JSON(http.StatusConflict, gin.H{"error": "Wallet is already connected to another account"})
		return
	}
	if res.Error != nil {
		slog.Error("update wallet", "user_id", userID, "error", res.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to connect wallet"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var user users.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, BuildUserDTO(user))
}

// DELETE /me/wallet
func DisconnectWallet(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}

	if err := database.DB.Model(&users.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"wallet_address": nil,
			"wallet_type":    nil,
			"blockchain":     nil,
			"updated_at":     time.Now(),
		}).Error; err != nil {
		slog.Error("disconnect wallet", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to disconnect wallet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Wallet disconnected"})
}
