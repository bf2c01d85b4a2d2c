package config

// FeatureFlags holds coarse feature toggles. Each flag disables an optional
// subsystem wholesale; there is no per-user targeting.
type FeatureFlags struct {
	// EnableResourceEnrichment turns external resource fetching on.
	EnableResourceEnrichment bool

	// EnableHub turns the agent-network endpoints on.
	EnableHub bool

	// EnableLedger turns the progress audit trail on.
	EnableLedger bool

	// EnableScheduler turns background jobs on.
	EnableScheduler bool
}

// LoadFeatureFlags reads the flags from the environment.
func LoadFeatureFlags() *FeatureFlags {
	return &FeatureFlags{
		EnableResourceEnrichment: getEnvBool("FEATURE_RESOURCE_ENRICHMENT", true),
		EnableHub:                getEnvBool("FEATURE_HUB", true),
		EnableLedger:             getEnvBool("FEATURE_LEDGER", true),
		EnableScheduler:          getEnvBool("FEATURE_SCHEDULER", true),
	}
}
