// Package config holds the settings shared by the command-line tools.
package config

import (
	_ "embed"
	"flag"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// EnvConfig names a config file when -config is not given.
const EnvConfig = "CHESSOTERIC_CONFIG"

//go:embed schema.cue
var schemaSrc string

// Config is the merged configuration: defaults, then the config file,
// then command-line flags.
type Config struct {
	LogLevel  string `json:"log_level"`
	LogFile   string `json:"log_file"`
	MaxSteps  int    `json:"max_steps"`
	Cache     bool   `json:"cache"`
	CacheDir  string `json:"cache_dir"`
	TraceDir  string `json:"trace_dir"`
	TraceSize int    `json:"trace_size"`
	Prompt    string `json:"prompt"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:  "warn",
		TraceSize: 256,
	}
}

// Load reads a CUE (or JSON) config file over the defaults. Unknown
// fields and values outside the schema are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString("close({"+schemaSrc+"})", cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("config schema: %w", err)
	}

	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	value = schema.Unify(value)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	cfg := Default()
	if err := value.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// RegisterFlags binds the configuration fields to fs.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn or error")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "also write JSON logs to this file")
	fs.IntVar(&c.MaxSteps, "max-steps", c.MaxSteps, "abort the machine after this many steps (0 = no limit)")
	fs.BoolVar(&c.Cache, "cache", c.Cache, "cache compiled programs")
	fs.StringVar(&c.CacheDir, "cache-dir", c.CacheDir, "program cache directory (default: user cache dir)")
	fs.StringVar(&c.TraceDir, "trace-dir", c.TraceDir, "write a PNG of the board for each annotated move")
	fs.IntVar(&c.TraceSize, "trace-size", c.TraceSize, "board size of trace images in pixels")
	fs.StringVar(&c.Prompt, "prompt", c.Prompt, "prompt shown when the machine reads input from a terminal")
}

// Parse parses args with fs. A config file named by -config (or
// $CHESSOTERIC_CONFIG) is loaded first and explicitly set flags override
// it. The remaining positional arguments are returned.
func Parse(fs *flag.FlagSet, args []string) (*Config, []string, error) {
	cfg := Default()
	configPath := fs.String("config", os.Getenv(EnvConfig), "CUE or JSON config file")
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if *configPath == "" {
		return cfg, fs.Args(), nil
	}

	fileCfg, err := Load(*configPath)
	if err != nil {
		return nil, nil, err
	}

	// Re-apply the flags that were given explicitly on top of the file.
	overlay := flag.NewFlagSet(fs.Name(), flag.ContinueOnError)
	fileCfg.RegisterFlags(overlay)
	var setErr error
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" || setErr != nil {
			return
		}
		setErr = overlay.Set(f.Name, f.Value.String())
	})
	if setErr != nil {
		return nil, nil, setErr
	}
	return fileCfg, fs.Args(), nil
}

// Validate checks values the flags cannot constrain.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("max-steps must not be negative, got %d", c.MaxSteps)
	}
	if c.TraceDir != "" && c.TraceSize < 64 {
		return fmt.Errorf("trace-size must be at least 64, got %d", c.TraceSize)
	}
	return nil
}
