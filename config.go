package shapescript

import (
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Config represents the ShapeScript CLI/embedder configuration.
type Config struct {
	Dialect           string   `yaml:"dialect"`             // "shapescript" or "openscad"; validated only, the CLI takes the dialect from its --dialect flag
	ImportPaths       []string `yaml:"import_paths"`        // search roots consulted by the default Delegate's ResolveURL
	MaxRecursionDepth int      `yaml:"max_recursion_depth"` // custom-block re-entry guard, spec.md §4.I
	DefaultDetail     int      `yaml:"default_detail"`      // validated and defaulted only; the evaluator always starts material.Detail at 16
	TabWidth          int      `yaml:"tab_width"`           // validated and defaulted only; diagnostic snippets do not read it
}

// LoadConfig loads .env files into the environment, then reads configPath
// as YAML, validates it, fills in defaults and expands environment
// variables in the import paths. A missing file is not an error: it yields
// getDefaultConfig with env expansion applied.
func LoadConfig(configPath string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config

	if err := yaml.UnmarshalWithOptions(data, &config, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	applyDefaults(&config)
	expandConfigEnvVars(&config)

	return &config, nil
}

func validateConfig(config *Config) error {
	if config.Dialect != "" && config.Dialect != string(DialectShapeScript) && config.Dialect != string(DialectOpenSCAD) {
		return fmt.Errorf("%w: invalid dialect %q: must be one of shapescript, openscad", ErrConfigValidation, config.Dialect)
	}

	if config.MaxRecursionDepth < 0 {
		return fmt.Errorf("%w: max_recursion_depth must not be negative", ErrConfigValidation)
	}

	if config.DefaultDetail < 0 {
		return fmt.Errorf("%w: default_detail must not be negative", ErrConfigValidation)
	}

	return nil
}

func getDefaultConfig() *Config {
	return &Config{
		ImportPaths:       []string{"."},
		MaxRecursionDepth: 1000,
		DefaultDetail:     16,
		TabWidth:          4,
	}
}

func applyDefaults(config *Config) {
	defaults := getDefaultConfig()

	if len(config.ImportPaths) == 0 {
		config.ImportPaths = defaults.ImportPaths
	}

	if config.MaxRecursionDepth == 0 {
		config.MaxRecursionDepth = defaults.MaxRecursionDepth
	}

	if config.DefaultDetail == 0 {
		config.DefaultDetail = defaults.DefaultDetail
	}

	if config.TabWidth == 0 {
		config.TabWidth = defaults.TabWidth
	}
}

func loadEnvFiles() error {
	if fileExists(".env") {
		if err := godotenv.Load(".env"); err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

var (
	envBraceRe = regexp.MustCompile(`\$\{([^}]+)\}`)
	envBareRe  = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR.
func expandEnvVars(s string) string {
	s = envBraceRe.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	s = envBareRe.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})

	return s
}

func expandConfigEnvVars(config *Config) {
	for i, p := range config.ImportPaths {
		config.ImportPaths[i] = expandEnvVars(p)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
