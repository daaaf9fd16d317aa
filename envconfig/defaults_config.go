// Package envconfig loads attribute defaults from TOML or YAML files and environment variables.
//
// Entries are keyed by Go type name as printed by reflect, e.g. "orders.Activities":
//
//	[defaults]
//	task_queue = "default-queue"
//
//	[type."orders.Activities"]
//	task_queue = "orders"
//
//	[type."orders.Activities".retry]
//	initial_interval = "1s"
//	backoff_coefficient = 2.0
//	maximum_attempts = 5
//	non_retryable_error_types = ["InvalidOrder"]
//
//	[type."orders.Activities".timeouts]
//	start_to_close = "30s"
//
// Values from files rank below attributes declared in code.
package envconfig

import (
	"fmt"
	"sort"
	"time"

	"go.temporal.io/sdk/contrib/annotations/internal"
	"go.uber.org/multierr"
)

// DefaultsConfig is the content of a defaults file.
type DefaultsConfig struct {
	// Defaults apply to every type, below everything else.
	Defaults *DefaultsEntry
	// Types, keyed by Go type name.
	Types map[string]*DefaultsEntry
}

// DefaultsEntry is the set of defaults for one type, or the global defaults.
type DefaultsEntry struct {
	TaskQueue string
	Retry     *RetryEntry
	Timeouts  *TimeoutsEntry
	Workflow  *WorkflowEntry
}

// RetryEntry mirrors the retry policy attribute.
type RetryEntry struct {
	InitialInterval        time.Duration
	BackoffCoefficient     float64
	MaximumInterval        time.Duration
	MaximumAttempts        int32
	NonRetryableErrorTypes []string
}

// TimeoutsEntry mirrors the activity timeouts attribute.
type TimeoutsEntry struct {
	ScheduleToClose time.Duration
	ScheduleToStart time.Duration
	StartToClose    time.Duration
	Heartbeat       time.Duration
}

// WorkflowEntry mirrors the workflow timeouts and workflow ID attributes.
type WorkflowEntry struct {
	ExecutionTimeout time.Duration
	RunTimeout       time.Duration
	TaskTimeout      time.Duration
	IDPrefix         string
}

// Attributes converts the entry to attributes. A nil entry has none.
func (e *DefaultsEntry) Attributes() []internal.Attribute {
	if e == nil {
		return nil
	}
	var attrs []internal.Attribute
	if e.TaskQueue != "" {
		attrs = append(attrs, internal.TaskQueueAttribute{Name: e.TaskQueue})
	}
	if r := e.Retry; r != nil {
		attrs = append(attrs, internal.RetryPolicyAttribute{
			InitialInterval:        r.InitialInterval,
			BackoffCoefficient:     r.BackoffCoefficient,
			MaximumInterval:        r.MaximumInterval,
			MaximumAttempts:        r.MaximumAttempts,
			NonRetryableErrorTypes: r.NonRetryableErrorTypes,
		})
	}
	if t := e.Timeouts; t != nil {
		attrs = append(attrs, internal.ActivityTimeoutsAttribute{
			ScheduleToClose: t.ScheduleToClose,
			ScheduleToStart: t.ScheduleToStart,
			StartToClose:    t.StartToClose,
			Heartbeat:       t.Heartbeat,
		})
	}
	if w := e.Workflow; w != nil {
		if w.ExecutionTimeout != 0 || w.RunTimeout != 0 || w.TaskTimeout != 0 {
			attrs = append(attrs, internal.WorkflowTimeoutsAttribute{
				Execution: w.ExecutionTimeout,
				Run:       w.RunTimeout,
				Task:      w.TaskTimeout,
			})
		}
		if w.IDPrefix != "" {
			attrs = append(attrs, internal.WorkflowIDAttribute{Prefix: w.IDPrefix})
		}
	}
	return attrs
}

// Validate checks every retry policy and timeout in the config.
func (c *DefaultsConfig) Validate() error {
	var errs error
	check := func(name string, e *DefaultsEntry) {
		if e == nil {
			return
		}
		if e.Retry != nil {
			if err := internal.RetryOptions(*e.Retry).Validate(); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%v: retry: %w", name, err))
			}
		}
		if t := e.Timeouts; t != nil {
			for _, d := range []time.Duration{t.ScheduleToClose, t.ScheduleToStart, t.StartToClose, t.Heartbeat} {
				if d < 0 {
					errs = multierr.Append(errs, fmt.Errorf("%v: timeouts cannot be negative", name))
					break
				}
			}
		}
		if w := e.Workflow; w != nil && (w.ExecutionTimeout < 0 || w.RunTimeout < 0 || w.TaskTimeout < 0) {
			errs = multierr.Append(errs, fmt.Errorf("%v: workflow timeouts cannot be negative", name))
		}
	}
	check("defaults", c.Defaults)
	for _, name := range c.TypeNames() {
		check(name, c.Types[name])
	}
	return errs
}

// TypeNames returns the configured type names in sorted order.
func (c *DefaultsConfig) TypeNames() []string {
	names := make([]string, 0, len(c.Types))
	for name := range c.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply binds the configured entries to registry by type name and replaces its global defaults.
func (c *DefaultsConfig) Apply(registry *internal.Registry) {
	for name, e := range c.Types {
		registry.RegisterName(name, e.Attributes()...)
	}
	registry.RegisterDefaults(c.Defaults.Attributes()...)
}

// Describe resolves the entry for name together with the global defaults.
func (c *DefaultsConfig) Describe(name string) (internal.Description, error) {
	e, ok := c.Types[name]
	if !ok {
		return internal.Description{}, fmt.Errorf("type %q not found", name)
	}
	return internal.DescribeAttributes(name, append(e.Attributes(), c.Defaults.Attributes()...))
}
