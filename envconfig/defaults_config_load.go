package envconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.temporal.io/sdk/contrib/annotations/internal"
)

// ConfigFileEnvVar names the environment variable holding the defaults file path.
const ConfigFileEnvVar = "TEMPORAL_ANNOTATIONS_FILE"

// EnvLookup abstracts environment access so tests can supply their own.
type EnvLookup interface {
	// Environ returns the full environment in os.Environ form.
	Environ() []string
	// LookupEnv behaves like os.LookupEnv.
	LookupEnv(string) (string, bool)
}

// EnvLookupOS is the EnvLookup backed by the process environment.
var EnvLookupOS EnvLookup = envLookupOS{}

type envLookupOS struct{}

func (envLookupOS) Environ() []string                   { return os.Environ() }
func (envLookupOS) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }

// EnvLookupMap is an EnvLookup over a fixed map.
type EnvLookupMap map[string]string

// Environ implements EnvLookup.
func (e EnvLookupMap) Environ() []string {
	ret := make([]string, 0, len(e))
	for k, v := range e {
		ret = append(ret, k+"="+v)
	}
	return ret
}

// LookupEnv implements EnvLookup.
func (e EnvLookupMap) LookupEnv(key string) (string, bool) {
	v, ok := e[key]
	return v, ok
}

// LoadDefaultsOptions are options for [LoadDefaults].
type LoadDefaultsOptions struct {
	// Path of the defaults file. Defaults to the TEMPORAL_ANNOTATIONS_FILE environment variable. A file ending in
	// .yaml or .yml is read as YAML, anything else as TOML. Cannot be set together with ConfigFileData.
	ConfigFilePath string

	// TOML data to load instead of a file.
	ConfigFileData []byte

	// If true, will error if there are unrecognized keys.
	ConfigFileStrict bool

	// If true, the global defaults are not overridden from environment variables. The file path may still come
	// from TEMPORAL_ANNOTATIONS_FILE.
	DisableEnv bool

	// Override the environment variable lookup. If nil, defaults to [EnvLookupOS].
	EnvLookup EnvLookup
}

// LoadDefaults loads the defaults file and applies environment overrides to its global defaults. A missing file is
// not an error and yields an empty config.
func LoadDefaults(options LoadDefaultsOptions) (*DefaultsConfig, error) {
	envLookup := options.EnvLookup
	if envLookup == nil {
		envLookup = EnvLookupOS
	}
	conf := &DefaultsConfig{Types: map[string]*DefaultsEntry{}}
	fileOptions := DefaultsConfigFromFileOptions{Strict: options.ConfigFileStrict}
	if len(options.ConfigFileData) > 0 {
		if options.ConfigFilePath != "" {
			return nil, fmt.Errorf("cannot have data and file path")
		}
		if err := conf.FromTOML(options.ConfigFileData, fileOptions); err != nil {
			return nil, fmt.Errorf("failed parsing defaults data: %w", err)
		}
	} else {
		file := options.ConfigFilePath
		if file == "" {
			// Empty and unset are both treated as unset.
			file, _ = envLookup.LookupEnv(ConfigFileEnvVar)
		}
		if file != "" {
			if err := loadFile(conf, file, fileOptions); err != nil {
				return nil, err
			}
		}
	}
	if !options.DisableEnv {
		if err := conf.ApplyEnvVars(envLookup); err != nil {
			return nil, err
		}
	}
	return conf, nil
}

func loadFile(conf *DefaultsConfig, file string, options DefaultsConfigFromFileOptions) error {
	b, err := os.ReadFile(file)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed reading file at %v: %w", file, err)
	}
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		err = conf.FromYAML(b, options)
	default:
		err = conf.FromTOML(b, options)
	}
	if err != nil {
		return fmt.Errorf("failed parsing file at %v: %w", file, err)
	}
	return nil
}

// envDefaults are the environment variables that override the global defaults.
type envDefaults struct {
	TaskQueue               string        `env:"TEMPORAL_ANNOTATIONS_TASK_QUEUE"`
	RetryMaxAttempts        int32         `env:"TEMPORAL_ANNOTATIONS_RETRY_MAX_ATTEMPTS"`
	RetryInitialInterval    time.Duration `env:"TEMPORAL_ANNOTATIONS_RETRY_INITIAL_INTERVAL"`
	RetryBackoffCoefficient float64       `env:"TEMPORAL_ANNOTATIONS_RETRY_BACKOFF_COEFFICIENT"`
	RetryMaximumInterval    time.Duration `env:"TEMPORAL_ANNOTATIONS_RETRY_MAXIMUM_INTERVAL"`
	StartToCloseTimeout     time.Duration `env:"TEMPORAL_ANNOTATIONS_START_TO_CLOSE_TIMEOUT"`
}

// ApplyEnvVars overrides the global defaults with the TEMPORAL_ANNOTATIONS_* environment variables that are set.
func (c *DefaultsConfig) ApplyEnvVars(envLookup EnvLookup) error {
	if envLookup == nil {
		envLookup = EnvLookupOS
	}
	environ := map[string]string{}
	for _, kv := range envLookup.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			environ[k] = v
		}
	}
	var vars envDefaults
	if err := env.ParseWithOptions(&vars, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}
	if vars == (envDefaults{}) {
		return nil
	}
	if c.Defaults == nil {
		c.Defaults = &DefaultsEntry{}
	}
	d := c.Defaults
	if vars.TaskQueue != "" {
		d.TaskQueue = vars.TaskQueue
	}
	if vars.RetryMaxAttempts != 0 || vars.RetryInitialInterval != 0 || vars.RetryBackoffCoefficient != 0 ||
		vars.RetryMaximumInterval != 0 {
		if d.Retry == nil {
			d.Retry = &RetryEntry{}
		}
		if vars.RetryMaxAttempts != 0 {
			d.Retry.MaximumAttempts = vars.RetryMaxAttempts
		}
		if vars.RetryInitialInterval != 0 {
			d.Retry.InitialInterval = vars.RetryInitialInterval
		}
		if vars.RetryBackoffCoefficient != 0 {
			d.Retry.BackoffCoefficient = vars.RetryBackoffCoefficient
		}
		if vars.RetryMaximumInterval != 0 {
			d.Retry.MaximumInterval = vars.RetryMaximumInterval
		}
	}
	if vars.StartToCloseTimeout != 0 {
		if d.Timeouts == nil {
			d.Timeouts = &TimeoutsEntry{}
		}
		d.Timeouts.StartToClose = vars.StartToCloseTimeout
	}
	return nil
}

// LoadIntoRegistry loads defaults and applies them to registry.
func LoadIntoRegistry(registry *internal.Registry, options LoadDefaultsOptions) (*DefaultsConfig, error) {
	conf, err := LoadDefaults(options)
	if err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	conf.Apply(registry)
	return conf, nil
}
