package app

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// PipelinePath points at the HCL manifest for this run. Optional: with
	// no manifest, every enabled node runs with no seeded resources.
	PipelinePath string
	// ProfilePath points at an optional YAML extraction profile.
	ProfilePath string

	LogFormat  string
	LogLevel   string
	HealthPort int

	// Workers bounds per-level concurrency; a manifest's workers setting
	// takes precedence when present.
	Workers  int
	Parallel bool
	FailFast bool
}
