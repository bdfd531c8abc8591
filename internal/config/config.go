// Package config handles shadergen configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/Faultbox/shadergen/internal/generator"
	"github.com/Faultbox/shadergen/internal/manifest"
	"github.com/Faultbox/shadergen/pkg/cpphdr"
	"github.com/Faultbox/shadergen/pkg/glsl"
)

// Config holds all generator settings.
type Config struct {
	Source  SourceConfig  `yaml:"source" toml:"source"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Include IncludeConfig `yaml:"include" toml:"include"`
	Watch   WatchConfig   `yaml:"watch" toml:"watch"`
	Check   CheckConfig   `yaml:"check" toml:"check"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`

	// DryRun is only set from the command line.
	DryRun bool `yaml:"-" toml:"-"`
}

// SourceConfig locates the shader tree.
type SourceConfig struct {
	Root     string `yaml:"root" toml:"root"`         // Source root, manifest dirs are relative to it
	Manifest string `yaml:"manifest" toml:"manifest"` // Manifest file name under Root
}

// OutputConfig controls the generated header.
type OutputConfig struct {
	FileName     string   `yaml:"file_name" toml:"file_name"`
	Namespaces   []string `yaml:"namespaces" toml:"namespaces"`
	StringType   string   `yaml:"string_type" toml:"string_type"`
	Banner       []string `yaml:"banner" toml:"banner"`
	EscapeQuotes bool     `yaml:"escape_quotes" toml:"escape_quotes"`
}

// IncludeConfig controls #include expansion.
type IncludeConfig struct {
	Policy    string `yaml:"policy" toml:"policy"` // shallow or recursive
	MaxDepth  int    `yaml:"max_depth" toml:"max_depth"`
	CacheSize int    `yaml:"cache_size" toml:"cache_size"`
}

// WatchConfig holds watch mode settings.
type WatchConfig struct {
	Debounce Duration `yaml:"debounce" toml:"debounce"`
}

// CheckConfig selects the GL context used to compile shaders.
type CheckConfig struct {
	GLMajor int    `yaml:"gl_major" toml:"gl_major"`
	GLMinor int    `yaml:"gl_minor" toml:"gl_minor"`
	Profile string `yaml:"profile" toml:"profile"` // core or compatibility
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Duration is a time.Duration written as "100ms" in config files.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Default returns a Config producing the stock KVS headers.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Root:     "../Source/SupportGLEW",
			Manifest: manifest.DefaultName,
		},
		Output: OutputConfig{
			FileName:   generator.DefaultOutputName,
			Namespaces: append([]string(nil), cpphdr.DefaultNamespaces...),
			StringType: "std::string",
			Banner:     append([]string(nil), cpphdr.DefaultBanner...),
		},
		Include: IncludeConfig{
			Policy:    glsl.Shallow.String(),
			MaxDepth:  glsl.DefaultMaxDepth,
			CacheSize: glsl.DefaultCacheSize,
		},
		Watch: WatchConfig{
			Debounce: Duration(100 * time.Millisecond),
		},
		Check: CheckConfig{
			GLMajor: 4,
			GLMinor: 1,
			Profile: "compatibility",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting the generator cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Source.Root == "":
		return fmt.Errorf("source.root is empty")
	case c.Source.Manifest == "":
		return fmt.Errorf("source.manifest is empty")
	case c.Output.FileName == "":
		return fmt.Errorf("output.file_name is empty")
	case c.Output.StringType == "":
		return fmt.Errorf("output.string_type is empty")
	case c.Include.MaxDepth <= 0:
		return fmt.Errorf("include.max_depth must be positive, got %d", c.Include.MaxDepth)
	case c.Watch.Debounce < 0:
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if _, err := glsl.ParsePolicy(c.Include.Policy); err != nil {
		return fmt.Errorf("include.policy: %w", err)
	}
	switch c.Check.Profile {
	case "core", "compatibility":
	default:
		return fmt.Errorf("check.profile: unknown profile %q", c.Check.Profile)
	}
	return nil
}

// GeneratorOptions converts the config into generator options.
func (c *Config) GeneratorOptions() (generator.Options, error) {
	policy, err := glsl.ParsePolicy(c.Include.Policy)
	if err != nil {
		return generator.Options{}, err
	}
	return generator.Options{
		Root:       c.Source.Root,
		Manifest:   c.Source.Manifest,
		OutputName: c.Output.FileName,
		Template: cpphdr.Template{
			Banner:     c.Output.Banner,
			Namespaces: c.Output.Namespaces,
			StringType: c.Output.StringType,
			Indent:     "    ",
		},
		Include: glsl.Options{
			Policy:       policy,
			MaxDepth:     c.Include.MaxDepth,
			EscapeQuotes: c.Output.EscapeQuotes,
			CacheSize:    c.Include.CacheSize,
		},
		DryRun: c.DryRun,
	}, nil
}
