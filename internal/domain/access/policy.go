package access

import (
	"fmt"
	"strings"
	"time"

	"web3builder/internal/domain/billing"
	"web3builder/internal/domain/sections"
	"web3builder/internal/domain/website"
)

type Policy struct {
	State        AccessState               `json:"state"`
	PublicMode   PublicMode                `json:"public_mode"`
	Capabilities []string                  `json:"capabilities"`
	Subscription *billing.UserSubscription `json:"subscription,omitempty"`
}

func ComputePolicy(now time.Time, subs []billing.UserSubscription) Policy {
	state, active := ComputeAccessState(now, subs)

	return Policy{
		State:        state,
		PublicMode:   PublicModeFromState(state),
		Capabilities: CapabilitiesFor(state),
		Subscription: active,
	}
}

func (p Policy) Can(capability string) bool {
	for _, c := range p.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// CheckWebsite returns ErrUpgradeRequired when the website uses a feature the
// policy does not grant. tmpl may be nil.
func (p Policy) CheckWebsite(w website.Website, tmpl *website.Template, list []sections.Section, catalog sections.Catalog) error {
	var missing []string
	need := func(capability string) {
		if !p.Can(capability) {
			missing = append(missing, capability)
		}
	}

	if tmpl != nil && tmpl.IsPremium {
		need(CapPremiumTemplates)
	}
	if nonEmpty(w.CustomDomain) {
		need(CapCustomDomain)
	}
	if nonEmpty(w.EnsDomain) || nonEmpty(w.SnsDomain) {
		need(CapWeb3Domains)
	}
	for _, s := range list {
		if e, ok := catalog.Lookup(s.Type); ok && e.IsPremium {
			need(CapPremiumBlocks)
			break
		}
	}

	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUpgradeRequired, strings.Join(missing, ", "))
}

func nonEmpty(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
