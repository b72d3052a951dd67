package access

import "errors"

type AccessState string

const (
	AccessFree AccessState = "free"
	AccessPro  AccessState = "pro"
)

type PublicMode string

const (
	PublicFull    PublicMode = "full"
	PublicLimited PublicMode = "limited"
)

const (
	CapPremiumTemplates  = "premium_templates"
	CapPremiumBlocks     = "premium_blocks"
	CapCustomDomain      = "custom_domain"
	CapWeb3Domains       = "web3_domains"
	CapAdvancedAnalytics = "advanced_analytics"
)

var ErrUpgradeRequired = errors.New("upgrade required")
