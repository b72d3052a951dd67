package users

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	Email      string `gorm:"not null;uniqueIndex:idx_users_email" json:"email"`
	Role       string `gorm:"not null;default:'user'" json:"role"`
	IsVerified bool   `gorm:"not null;default:false" json:"is_verified"`

	// OTPSecret seeds the one-time sign-in codes mailed to the user.
	OTPSecret string `gorm:"column:otp_secret" json:"-"`

	WalletAddress *string `gorm:"column:wallet_address;uniqueIndex:idx_users_wallet_address" json:"wallet_address,omitempty"`
	WalletType    *string `gorm:"column:wallet_type" json:"wallet_type,omitempty"`
	Blockchain    *string `json:"blockchain,omitempty"`

	GoogleSub *string `gorm:"uniqueIndex:idx_users_google_sub" json:"-"`

	ReferralCode string `gorm:"column:referral_code;uniqueIndex:idx_users_referral_code" json:"referral_code"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.ReferralCode == "" {
		code, err := uniqueReferralCode(tx.Session(&gorm.Session{NewDB: true}), u.ID)
		if err != nil {
			return err
		}
		u.ReferralCode = code
	}
	u.Email = NormalizeEmail(u.Email)
	return nil
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

const referralCodeLen = 8

// ReferralCodeFor derives the public referral code from a user id: its first
// eight characters, lower-cased. Codes are matched case-insensitively.
func ReferralCodeFor(userID string) string {
	return referralCode(userID, referralCodeLen)
}

// NormalizeReferralCode puts a code typed by a visitor in stored form.
func NormalizeReferralCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func referralCode(userID string, n int) string {
	hex := strings.ToLower(strings.ReplaceAll(userID, "-", ""))
	if len(hex) > n {
		return hex[:n]
	}
	return hex
}

// uniqueReferralCode lengthens the id prefix until no other user holds it. The
// full id is returned as a last resort.
func uniqueReferralCode(db *gorm.DB, userID string) (string, error) {
	full := referralCode(userID, len(userID))
	for n := referralCodeLen; n < len(full); n += 4 {
		code := referralCode(userID, n)
		var count int64
		if err := db.Model(&User{}).Where("referral_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return full, nil
}
