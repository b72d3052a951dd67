package usersapi

import (
	"time"

	"web3builder/config"
	"web3builder/internal/domain/access"
	"web3builder/internal/domain/billing"
	"web3builder/internal/domain/plans"
	"web3builder/internal/domain/referrals"
	"web3builder/internal/domain/users"
	"web3builder/internal/domain/website"
)

func BuildUserDTO(u users.User) UserDTO {
	return UserDTO{
		ID:            u.ID,
		Email:         u.Email,
		Role:          u.Role,
		IsVerified:    u.IsVerified,
		WalletAddress: u.WalletAddress,
		WalletType:    u.WalletType,
		Blockchain:    u.Blockchain,
		GoogleLinked:  u.GoogleSub != nil,
	}
}

func BuildPlanDTO(p *plans.SubscriptionPlan) *PlanDTO {
	if p == nil {
		return nil
	}
	return &PlanDTO{
		ID:         p.ID,
		Name:       p.Name,
		Tier:       plans.PlanTier(p),
		Price:      p.Price,
		Currency:   p.Currency,
		Blockchain: p.Blockchain,
		IsOneTime:  p.IsOneTime,
	}
}

func BuildSubscriptionDTO(now time.Time, s *billing.UserSubscription) *SubscriptionDTO {
	if s == nil {
		return nil
	}

	var daysLeft *int
	if s.EndDate != nil {
		d := 0
		if now.Before(*s.EndDate) {
			d = int(s.EndDate.Sub(now).Hours() / 24)
		}
		daysLeft = &d
	}

	return &SubscriptionDTO{
		Status:   s.Status,
		StartsAt: s.StartDate,
		EndsAt:   s.EndDate,
		DaysLeft: daysLeft,
	}
}

func BuildBillingDTO(now time.Time, policy access.Policy) BillingDTO {
	if policy.Subscription == nil {
		return BillingDTO{}
	}
	return BillingDTO{
		Plan:         BuildPlanDTO(policy.Subscription.Plan),
		Subscription: BuildSubscriptionDTO(now, policy.Subscription),
	}
}

func BuildAccessDTO(policy access.Policy, sites []website.Website) AccessDTO {
	rules := access.SiteRulesFor(policy.PublicMode)

	out := AccessDTO{
		State:        string(policy.State),
		Capabilities: policy.Capabilities,
		Site: SiteRulesDTO{
			Mode:                 string(policy.PublicMode),
			NoIndex:              rules.NoIndex,
			ShowPlatformBranding: rules.ShowPlatformBranding,
		},
		Websites: make([]SiteDTO, 0, len(sites)),
	}
	for _, w := range sites {
		out.Websites = append(out.Websites, SiteDTO{
			ID:        w.ID,
			Name:      w.Name,
			Subdomain: w.Subdomain,
			PublicURL: website.BuildPublicURL(w.Subdomain, config.PUBLIC_HOST),
			Published: w.Published,
		})
	}
	return out
}

func BuildReferralDTO(u users.User) ReferralDTO {
	return ReferralDTO{
		Code: u.ReferralCode,
		Link: referrals.Link(config.PUBLIC_HOST, u.ReferralCode),
	}
}
