package access

func PublicModeFromState(state AccessState) PublicMode {
	if state == AccessPro {
		return PublicFull
	}
	return PublicLimited
}

// SiteRules are the restrictions applied when rendering a public site.
type SiteRules struct {
	ShowPlatformBranding bool
	NoIndex              bool
}

func SiteRulesFor(mode PublicMode) SiteRules {
	if mode == PublicFull {
		return SiteRules{}
	}
	return SiteRules{ShowPlatformBranding: true}
}
