package users

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const otpIssuer = "Reham"

// Sign-in codes stay valid for one ten-minute step, plus one step of skew.
var otpOpts = totp.ValidateOpts{
	Period:    600,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// NewOTPSecret creates the per-user secret sign-in codes are derived from.
func NewOTPSecret(email string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      otpIssuer,
		AccountName: email,
		Period:      otpOpts.Period,
		Digits:      otpOpts.Digits,
		Algorithm:   otpOpts.Algorithm,
	})
	if err != nil {
		return "", err
	}
	return key.Secret(), nil
}

func OTPCode(secret string, now time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, now, otpOpts)
}

func ValidOTP(code, secret string, now time.Time) bool {
	if code == "" || secret == "" {
		return false
	}
	ok, err := totp.ValidateCustom(code, secret, now, otpOpts)
	return err == nil && ok
}
