package usersapi

import "time"

type MeResponse struct {
	User     UserDTO     `json:"user"`
	Billing  BillingDTO  `json:"billing"`
	Access   AccessDTO   `json:"access"`
	Referral ReferralDTO `json:"referral"`
}

/* ---------- USER ---------- */

type UserDTO struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	Role          string  `json:"role"`
	IsVerified    bool    `json:"is_verified"`
	WalletAddress *string `json:"wallet_address"`
	WalletType    *string `json:"wallet_type"`
	Blockchain    *string `json:"blockchain"`
	GoogleLinked  bool    `json:"google_linked"`
}

/* ---------- BILLING ---------- */

type BillingDTO struct {
	Plan         *PlanDTO         `json:"plan"`
	Subscription *SubscriptionDTO `json:"subscription"`
}

type PlanDTO struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Tier       string  `json:"tier"`
	Price      float64 `json:"price"`
	Currency   string  `json:"currency"`
	Blockchain string  `json:"blockchain"`
	IsOneTime  bool    `json:"is_one_time"`
}

type SubscriptionDTO struct {
	Status   string     `json:"status"`
	StartsAt time.Time  `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
	DaysLeft *int       `json:"days_left"`
}

/* ---------- ACCESS ---------- */

type AccessDTO struct {
	State        string       `json:"state"` // free|pro
	Capabilities []string     `json:"capabilities"`
	Site         SiteRulesDTO `json:"site"`
	Websites     []SiteDTO    `json:"websites"`
}

type SiteRulesDTO struct {
	Mode                 string `json:"mode"` // full|limited
	NoIndex              bool   `json:"noindex"`
	ShowPlatformBranding bool   `json:"show_platform_branding"`
}

type SiteDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Subdomain string `json:"subdomain"`
	PublicURL string `json:"public_url"`
	Published bool   `json:"published"`
}

/* ---------- REFERRAL ---------- */

type ReferralDTO struct {
	Code string `json:"code"`
	Link string `json:"link"`
}
