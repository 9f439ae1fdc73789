package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadParams names the option sources for Load. Empty fields are skipped.
type LoadParams struct {
	OptionsFile string
	EnvFile     string
	Sets        []string
}

// Load merges the options file, the env file and --set overrides, later
// sources winning.
func Load(p LoadParams) (Options, error) {
	opts := Options{}

	if p.OptionsFile != "" {
		fromFile, err := LoadFile(p.OptionsFile)
		if err != nil {
			return nil, err
		}
		opts = opts.Merge(fromFile)
	}

	if p.EnvFile != "" {
		fromEnv, err := LoadEnvFile(p.EnvFile)
		if err != nil {
			return nil, err
		}
		opts = opts.Merge(fromEnv)
	}

	if len(p.Sets) > 0 {
		overrides, err := ParseSets(p.Sets)
		if err != nil {
			return nil, err
		}
		opts = opts.Merge(overrides)
	}

	return opts, nil
}

// LoadFile reads options from a YAML file whose top level is a mapping.
func LoadFile(path string) (Options, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read options file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses YAML options. An empty document yields empty options.
func LoadFromBytes(data []byte) (Options, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	opts := make(Options, len(raw))
	for k, v := range raw {
		if _, nested := v.(map[string]any); nested {
			return nil, fmt.Errorf("option %s must be a scalar or a list, got a mapping", k)
		}
		opts[k] = v
	}
	return opts, nil
}

// LoadEnvFile reads KEY=value pairs from a dotenv file. All values are
// strings.
func LoadEnvFile(path string) (Options, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	opts := make(Options, len(env))
	for k, v := range env {
		opts[k] = v
	}
	return opts, nil
}

// ParseSets parses key=value overrides. The value is decoded as a YAML
// scalar so `redis_db=0` yields an int and `redis_tunnel=true` a bool.
func ParseSets(sets []string) (Options, error) {
	opts := make(Options, len(sets))
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid override %q: expected key=value", s)
		}

		var decoded any
		if err := yaml.Unmarshal([]byte(value), &decoded); err != nil || decoded == nil {
			decoded = value
		}
		if _, nested := decoded.(map[string]any); nested {
			decoded = value
		}
		opts[key] = decoded
	}
	return opts, nil
}
