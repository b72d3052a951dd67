package plans

import "strings"

const (
	TierFree = "free"
	TierPro  = "pro"
)

// PlanTier returns the effective tier for a plan. A nil plan is the free tier;
// a paid plan with no explicit tier counts as pro.
func PlanTier(p *SubscriptionPlan) string {
	if p == nil {
		return TierFree
	}

	tier := strings.ToLower(strings.TrimSpace(p.Tier))
	switch tier {
	case TierFree, TierPro:
		return tier
	}

	if p.Price > 0 {
		return TierPro
	}
	return TierFree
}
