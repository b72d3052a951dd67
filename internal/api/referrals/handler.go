package referralsapi

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"web3builder/config"
	"web3builder/database"
	"web3builder/internal/api/respond"
	"web3builder/internal/domain/referrals"
	"web3builder/internal/domain/users"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

type ReferralDTO struct {
	referrals.Referral
	ReferredEmail string `json:"referred_email"`
}

type LinkResponse struct {
	Code string `json:"code"`
	Link string `json:"link"`
	// QRCode is a base64 PNG data URL of Link.
	QRCode string `json:"qr_code"`
}

// GET /referrals
func ListReferrals(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}

	var list []referrals.Referral
	if err := database.DB.
		Where("referrer_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		slog.Error("load referrals", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load referrals"})
		return
	}

	ids := make([]string, 0, len(list))
	for _, r := range list {
		ids = append(ids, r.ReferredID)
	}
	emails := map[string]string{}
	if len(ids) > 0 {
		var referred []users.User
		if err := database.DB.Select("id", "email").Where("id IN ?", ids).Find(&referred).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load referrals"})
			return
		}
		for _, u := range referred {
			emails[u.ID] = u.Email
		}
	}

	out := make([]ReferralDTO, 0, len(list))
	for _, r := range list {
		out = append(out, ReferralDTO{Referral: r, ReferredEmail: emails[r.ReferredID]})
	}
	c.JSON(http.StatusOK, out)
}

// GET /referrals/link
func GetReferralLink(c *gin.Context) {
	userID, ok := respond.UserID(c)
	if !ok {
		return
	}

	var user users.User
	if err := database.DB.Select("id", "referral_code").First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	link := referrals.Link(config.PUBLIC_HOST, user.ReferralCode)
	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		slog.Error("referral qr code", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create QR code"})
		return
	}

	c.JSON(http.StatusOK, LinkResponse{
		Code:   user.ReferralCode,
		Link:   link,
		QRCode: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	})
}
