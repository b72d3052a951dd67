package access

import (
	"time"

	"web3builder/internal/domain/billing"
	"web3builder/internal/domain/plans"
)

// ComputeAccessState picks the best tier granted by the user's subscriptions
// at now. Expired or canceled rows grant nothing.
func ComputeAccessState(now time.Time, subs []billing.UserSubscription) (AccessState, *billing.UserSubscription) {
	for i := range subs {
		s := &subs[i]
		if !s.ActiveAt(now) {
			continue
		}
		if plans.PlanTier(s.Plan) == plans.TierPro {
			return AccessPro, s
		}
	}
	return AccessFree, nil
}
