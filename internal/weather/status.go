package weather

import "github.com/agromitra/agromitra/internal/config"

// SourceStatuses reports the failover chain's configuration state in
// priority order, without making any network calls. The simulation tier
// is always configured.
func SourceStatuses(cfg config.SourcesConfig) []SourceStatus {
	return []SourceStatus{
		{
			SourceName:       PrimarySourceName,
			Configured:       cfg.Primary.APIKey != "",
			ReliabilityScore: PrimaryReliability,
		},
		{
			SourceName:       SecondarySourceName,
			Configured:       cfg.Secondary.APIKey != "",
			ReliabilityScore: SecondaryReliability,
		},
		{
			SourceName:       SimulationSourceName,
			Configured:       true,
			ReliabilityScore: SimulationReliability,
		},
	}
}
