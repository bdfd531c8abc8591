package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file (.yaml or .toml)")
	flagRoot     = flag.String("root", "", "Source root holding the shader manifest")
	flagManifest = flag.String("manifest", "", "Manifest file name, relative to the source root")
	flagPolicy   = flag.String("policy", "", "Include policy: shallow or recursive")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagDryRun   = flag.Bool("dry-run", false, "Render headers without writing them")
	flagLogFile  = flag.String("log-file", "", "Also write logs to this file")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagRoot != "" {
		cfg.Source.Root = *flagRoot
	}
	if *flagManifest != "" {
		cfg.Source.Manifest = *flagManifest
	}
	if *flagPolicy != "" {
		cfg.Include.Policy = *flagPolicy
	}
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagDryRun {
		cfg.DryRun = true
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
