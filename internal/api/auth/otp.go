package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"web3builder/database"
	"web3builder/internal/app/http/middleware"
	"web3builder/internal/domain/referrals"
	"web3builder/internal/domain/users"
	"web3builder/internal/session"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type requestCodeInput struct {
	Email    string `json:"email" binding:"required,email"`
	Referral string `json:"ref"`
}

// POST /auth/otp/request
// Mails a one-time sign-in code, creating the account on first use.
func RequestCode(c *gin.Context) {
	var in requestCodeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email"})
		return
	}
	email := users.NormalizeEmail(in.Email)

	var user users.User
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", email).First(&user).Error
		if err == nil {
			if user.OTPSecret != "" {
				return nil
			}
			secret, err := users.NewOTPSecret(email)
			if err != nil {
				return err
			}
			user.OTPSecret = secret
			return tx.Model(&user).Update("otp_secret", secret).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		secret, err := users.NewOTPSecret(email)
		if err != nil {
			return err
		}
		user = users.User{Email: email, Role: users.RoleUser, OTPSecret: secret}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return attachReferral(tx, user, in.Referral)
	})
	if err != nil {
		slog.Error("otp request", "email", email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start sign-in"})
		return
	}

	code, err := users.OTPCode(user.OTPSecret, time.Now())
	if err != nil {
		slog.Error("otp code", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start sign-in"})
		return
	}
	if err := sendCode(email, code); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send sign-in code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Check your email for a sign-in code."})
}

// attachReferral records who referred a new user. Unknown codes and
// self-referrals are ignored.
func attachReferral(tx *gorm.DB, user users.User, code string) error {
	code = users.NormalizeReferralCode(code)
	if code == "" {
		return nil
	}

	var referrer users.User
	err := tx.Where("referral_code = ?", code).First(&referrer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && referrer.ID == user.ID) {
		return nil
	}
	if err != nil {
		return err
	}

	return tx.Create(&referrals.Referral{
		ReferrerID: referrer.ID,
		ReferredID: user.ID,
		Status:     referrals.StatusPending,
	}).Error
}

type verifyCodeInput struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// POST /auth/otp/verify
func VerifyCode(c *gin.Context) {
	var in verifyCodeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and code are required"})
		return
	}

	var user users.User
	if err := database.DB.Where("email = ?", users.NormalizeEmail(in.Email)).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid code"})
		return
	}
	if !users.ValidOTP(strings.TrimSpace(in.Code), user.OTPSecret, time.Now()) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid code"})
		return
	}

	if !user.IsVerified {
		user.IsVerified = true
		if err := database.DB.Model(&user).Update("is_verified", true).Error; err != nil {
			slog.Error("mark verified", "user_id", user.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
			return
		}
	}

	token, sess, err := middleware.IssueToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "expires_at": sess.ExpiresAt, "user": user})
}

// POST /auth/logout
func Logout(c *gin.Context) {
	session.Default.SignOut(c.GetString("session_id"))
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// POST /auth/logout-all
func LogoutAll(c *gin.Context) {
	n := session.Default.SignOutUser(c.GetString("user_id"))
	c.JSON(http.StatusOK, gin.H{"message": "Signed out", "sessions": n})
}
