package access

func CapabilitiesFor(state AccessState) []string {
	if state != AccessPro {
		return []string{}
	}
	return []string{
		CapPremiumTemplates,
		CapPremiumBlocks,
		CapCustomDomain,
		CapWeb3Domains,
		CapAdvancedAnalytics,
	}
}
