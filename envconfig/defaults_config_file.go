package envconfig

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultsConfigToTOMLOptions are options for [DefaultsConfig.ToTOML].
type DefaultsConfigToTOMLOptions struct {
	// Defaults to two-space indent.
	OverrideIndent *string
}

// ToTOML converts the config to TOML. Durations are written in time.Duration string form.
func (c *DefaultsConfig) ToTOML(options DefaultsConfigToTOMLOptions) ([]byte, error) {
	var conf fileDefaultsConfig
	conf.fromDefaultsConfig(c)
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if options.OverrideIndent != nil {
		enc.Indent = *options.OverrideIndent
	}
	if err := enc.Encode(&conf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToYAML converts the config to YAML with the same keys as ToTOML.
func (c *DefaultsConfig) ToYAML() ([]byte, error) {
	var conf fileDefaultsConfig
	conf.fromDefaultsConfig(c)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&conf); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DefaultsConfigFromFileOptions are options for [DefaultsConfig.FromTOML] and [DefaultsConfig.FromYAML].
type DefaultsConfigFromFileOptions struct {
	// If true, will error if there are unrecognized keys.
	Strict bool
}

// FromTOML replaces the config with the TOML content of b. It does no merging.
func (c *DefaultsConfig) FromTOML(b []byte, options DefaultsConfigFromFileOptions) error {
	var conf fileDefaultsConfig
	if md, err := toml.Decode(string(b), &conf); err != nil {
		return err
	} else if options.Strict {
		unknown := md.Undecoded()
		if len(unknown) > 0 {
			keys := make([]string, len(unknown))
			for i, k := range unknown {
				keys[i] = k.String()
			}
			return fmt.Errorf("key(s) unrecognized: %v", strings.Join(keys, ", "))
		}
	}
	return conf.applyToDefaultsConfig(c)
}

// FromYAML replaces the config with the YAML content of b. Keys match the TOML ones.
func (c *DefaultsConfig) FromYAML(b []byte, options DefaultsConfigFromFileOptions) error {
	var conf fileDefaultsConfig
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(options.Strict)
	// An empty document decodes to io.EOF, which is not an error here.
	if err := dec.Decode(&conf); err != nil && len(bytes.TrimSpace(b)) > 0 {
		return err
	}
	return conf.applyToDefaultsConfig(c)
}

type fileDefaultsConfig struct {
	Defaults *fileDefaultsEntry           `toml:"defaults,omitempty" yaml:"defaults,omitempty"`
	Types    map[string]fileDefaultsEntry `toml:"type,omitempty" yaml:"type,omitempty"`
}

type fileDefaultsEntry struct {
	TaskQueue string        `toml:"task_queue,omitempty" yaml:"task_queue,omitempty"`
	Retry     *fileRetry    `toml:"retry,omitempty" yaml:"retry,omitempty"`
	Timeouts  *fileTimeouts `toml:"timeouts,omitempty" yaml:"timeouts,omitempty"`
	Workflow  *fileWorkflow `toml:"workflow,omitempty" yaml:"workflow,omitempty"`
}

type fileRetry struct {
	InitialInterval    string  `toml:"initial_interval,omitempty" yaml:"initial_interval,omitempty"`
	BackoffCoefficient float64 `toml:"backoff_coefficient,omitzero" yaml:"backoff_coefficient,omitempty"`
	MaximumInterval    string  `toml:"maximum_interval,omitempty" yaml:"maximum_interval,omitempty"`
	MaximumAttempts    int32   `toml:"maximum_attempts,omitzero" yaml:"maximum_attempts,omitempty"`

	// A pointer, so an empty list survives a round trip. Empty means no error type is non-retryable.
	NonRetryableErrorTypes *[]string `toml:"non_retryable_error_types,omitempty" yaml:"non_retryable_error_types,omitempty"`
}

type fileTimeouts struct {
	ScheduleToClose string `toml:"schedule_to_close,omitempty" yaml:"schedule_to_close,omitempty"`
	ScheduleToStart string `toml:"schedule_to_start,omitempty" yaml:"schedule_to_start,omitempty"`
	StartToClose    string `toml:"start_to_close,omitempty" yaml:"start_to_close,omitempty"`
	Heartbeat       string `toml:"heartbeat,omitempty" yaml:"heartbeat,omitempty"`
}

type fileWorkflow struct {
	ExecutionTimeout string `toml:"execution_timeout,omitempty" yaml:"execution_timeout,omitempty"`
	RunTimeout       string `toml:"run_timeout,omitempty" yaml:"run_timeout,omitempty"`
	TaskTimeout      string `toml:"task_timeout,omitempty" yaml:"task_timeout,omitempty"`
	IDPrefix         string `toml:"id_prefix,omitempty" yaml:"id_prefix,omitempty"`
}

func (c *fileDefaultsConfig) applyToDefaultsConfig(conf *DefaultsConfig) error {
	conf.Defaults = nil
	conf.Types = make(map[string]*DefaultsEntry, len(c.Types))
	if c.Defaults != nil {
		e, err := c.Defaults.toDefaultsEntry()
		if err != nil {
			return fmt.Errorf("defaults: %w", err)
		}
		conf.Defaults = e
	}
	for k, v := range c.Types {
		e, err := v.toDefaultsEntry()
		if err != nil {
			return fmt.Errorf("type %q: %w", k, err)
		}
		conf.Types[k] = e
	}
	return nil
}

func (c *fileDefaultsConfig) fromDefaultsConfig(conf *DefaultsConfig) {
	if conf.Defaults != nil {
		c.Defaults = &fileDefaultsEntry{}
		c.Defaults.fromDefaultsEntry(conf.Defaults)
	}
	c.Types = make(map[string]fileDefaultsEntry, len(conf.Types))
	for k, v := range conf.Types {
		var e fileDefaultsEntry
		e.fromDefaultsEntry(v)
		c.Types[k] = e
	}
}

func (c *fileDefaultsEntry) toDefaultsEntry() (*DefaultsEntry, error) {
	e := &DefaultsEntry{TaskQueue: c.TaskQueue}
	var errs durationParser
	if r := c.Retry; r != nil {
		e.Retry = &RetryEntry{
			InitialInterval:    errs.parse("retry.initial_interval", r.InitialInterval),
			BackoffCoefficient: r.BackoffCoefficient,
			MaximumInterval:    errs.parse("retry.maximum_interval", r.MaximumInterval),
			MaximumAttempts:    r.MaximumAttempts,
		}
		if r.NonRetryableErrorTypes != nil {
			e.Retry.NonRetryableErrorTypes = append([]string{}, *r.NonRetryableErrorTypes...)
		}
	}
	if t := c.Timeouts; t != nil {
		e.Timeouts = &TimeoutsEntry{
			ScheduleToClose: errs.parse("timeouts.schedule_to_close", t.ScheduleToClose),
			ScheduleToStart: errs.parse("timeouts.schedule_to_start", t.ScheduleToStart),
			StartToClose:    errs.parse("timeouts.start_to_close", t.StartToClose),
			Heartbeat:       errs.parse("timeouts.heartbeat", t.Heartbeat),
		}
	}
	if w := c.Workflow; w != nil {
		e.Workflow = &WorkflowEntry{
			ExecutionTimeout: errs.parse("workflow.execution_timeout", w.ExecutionTimeout),
			RunTimeout:       errs.parse("workflow.run_timeout", w.RunTimeout),
			TaskTimeout:      errs.parse("workflow.task_timeout", w.TaskTimeout),
			IDPrefix:         w.IDPrefix,
		}
	}
	if errs.err != nil {
		return nil, errs.err
	}
	return e, nil
}

func (c *fileDefaultsEntry) fromDefaultsEntry(e *DefaultsEntry) {
	c.TaskQueue = e.TaskQueue
	if r := e.Retry; r != nil {
		c.Retry = &fileRetry{
			InitialInterval:    formatDuration(r.InitialInterval),
			BackoffCoefficient: r.BackoffCoefficient,
			MaximumInterval:    formatDuration(r.MaximumInterval),
			MaximumAttempts:    r.MaximumAttempts,
		}
		if r.NonRetryableErrorTypes != nil {
			types := append([]string{}, r.NonRetryableErrorTypes...)
			c.Retry.NonRetryableErrorTypes = &types
		}
	}
	if t := e.Timeouts; t != nil {
		c.Timeouts = &fileTimeouts{
			ScheduleToClose: formatDuration(t.ScheduleToClose),
			ScheduleToStart: formatDuration(t.ScheduleToStart),
			StartToClose:    formatDuration(t.StartToClose),
			Heartbeat:       formatDuration(t.Heartbeat),
		}
	}
	if w := e.Workflow; w != nil {
		c.Workflow = &fileWorkflow{
			ExecutionTimeout: formatDuration(w.ExecutionTimeout),
			RunTimeout:       formatDuration(w.RunTimeout),
			TaskTimeout:      formatDuration(w.TaskTimeout),
			IDPrefix:         w.IDPrefix,
		}
	}
}

// durationParser keeps the first parse error so entries can be converted in a single expression.
type durationParser struct {
	err error
}

func (p *durationParser) parse(key, s string) time.Duration {
	if s == "" || p.err != nil {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		p.err = fmt.Errorf("%v: %w", key, err)
	}
	return d
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.String()
}
