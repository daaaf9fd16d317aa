// The MIT License
//
// Copyright (c) 2021 Temporal Technologies Inc.  All rights reserved.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package internal

import (
	"fmt"
	"strings"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// resolvedAttributes flattens an attribute list, nearest first, into one value per concern. Timeout attributes are
// merged field by field so a parent can supply a heartbeat timeout while a child sets start-to-close.
type resolvedAttributes struct {
	taskQueue        string
	retry            []RetryPolicyAttribute
	activityTimeouts ActivityTimeoutsAttribute
	workflowTimeouts WorkflowTimeoutsAttribute
	idPrefix         string
	hasIDPrefix      bool
}

func resolveAttributes(attrs []Attribute) resolvedAttributes {
	var r resolvedAttributes
	for _, a := range attrs {
		switch a := a.(type) {
		case TaskQueueAttribute:
			if r.taskQueue == "" {
				r.taskQueue = a.Name
			}
		case RetryPolicyAttribute:
			r.retry = append(r.retry, a)
		case ActivityTimeoutsAttribute:
			fillDuration(&r.activityTimeouts.ScheduleToClose, a.ScheduleToClose)
			fillDuration(&r.activityTimeouts.ScheduleToStart, a.ScheduleToStart)
			fillDuration(&r.activityTimeouts.StartToClose, a.StartToClose)
			fillDuration(&r.activityTimeouts.Heartbeat, a.Heartbeat)
		case WorkflowTimeoutsAttribute:
			fillDuration(&r.workflowTimeouts.Execution, a.Execution)
			fillDuration(&r.workflowTimeouts.Run, a.Run)
			fillDuration(&r.workflowTimeouts.Task, a.Task)
		case WorkflowIDAttribute:
			if !r.hasIDPrefix {
				r.idPrefix, r.hasIDPrefix = a.Prefix, true
			}
		}
	}
	return r
}

func fillDuration(dst *time.Duration, v time.Duration) {
	if *dst == 0 {
		*dst = v
	}
}

func fillString(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func (r resolvedAttributes) retryPolicy(explicit *temporal.RetryPolicy) (*temporal.RetryPolicy, error) {
	p, err := BuildRetryPolicy(retryOptionsFromPolicy(explicit), r.retry...)
	if err != nil {
		return nil, fmt.Errorf("invalid retry policy: %w", err)
	}
	return p, nil
}

// MergeActivityOptions fills the unset fields of options from attributes.
func MergeActivityOptions(options workflow.ActivityOptions, attrs []Attribute) (workflow.ActivityOptions, error) {
	r := resolveAttributes(attrs)
	fillString(&options.TaskQueue, r.taskQueue)
	fillDuration(&options.ScheduleToCloseTimeout, r.activityTimeouts.ScheduleToClose)
	fillDuration(&options.ScheduleToStartTimeout, r.activityTimeouts.ScheduleToStart)
	fillDuration(&options.StartToCloseTimeout, r.activityTimeouts.StartToClose)
	fillDuration(&options.HeartbeatTimeout, r.activityTimeouts.Heartbeat)
	var err error
	if options.RetryPolicy, err = r.retryPolicy(options.RetryPolicy); err != nil {
		return options, err
	}
	return options, nil
}

// MergeLocalActivityOptions fills the unset fields of options from attributes. Task queues do not apply to local
// activities.
func MergeLocalActivityOptions(
	options workflow.LocalActivityOptions,
	attrs []Attribute,
) (workflow.LocalActivityOptions, error) {
	r := resolveAttributes(attrs)
	fillDuration(&options.ScheduleToCloseTimeout, r.activityTimeouts.ScheduleToClose)
	fillDuration(&options.StartToCloseTimeout, r.activityTimeouts.StartToClose)
	var err error
	if options.RetryPolicy, err = r.retryPolicy(options.RetryPolicy); err != nil {
		return options, err
	}
	return options, nil
}

// MergeChildWorkflowOptions fills the unset fields of options from attributes. Workflow IDs are left to the caller.
func MergeChildWorkflowOptions(
	options workflow.ChildWorkflowOptions,
	attrs []Attribute,
) (workflow.ChildWorkflowOptions, error) {
	r := resolveAttributes(attrs)
	fillString(&options.TaskQueue, r.taskQueue)
	fillDuration(&options.WorkflowExecutionTimeout, r.workflowTimeouts.Execution)
	fillDuration(&options.WorkflowRunTimeout, r.workflowTimeouts.Run)
	fillDuration(&options.WorkflowTaskTimeout, r.workflowTimeouts.Task)
	var err error
	if options.RetryPolicy, err = r.retryPolicy(options.RetryPolicy); err != nil {
		return options, err
	}
	return options, nil
}

// MergeStartWorkflowOptions fills the unset fields of options from attributes. Workflow IDs are left to the caller.
func MergeStartWorkflowOptions(
	options client.StartWorkflowOptions,
	attrs []Attribute,
) (client.StartWorkflowOptions, error) {
	r := resolveAttributes(attrs)
	fillString(&options.TaskQueue, r.taskQueue)
	fillDuration(&options.WorkflowExecutionTimeout, r.workflowTimeouts.Execution)
	fillDuration(&options.WorkflowRunTimeout, r.workflowTimeouts.Run)
	fillDuration(&options.WorkflowTaskTimeout, r.workflowTimeouts.Task)
	var err error
	if options.RetryPolicy, err = r.retryPolicy(options.RetryPolicy); err != nil {
		return options, err
	}
	return options, nil
}

// Description is a resolved, human-readable view of the attributes of one type.
type Description struct {
	Type             string
	TaskQueue        string
	RetryPolicy      *temporal.RetryPolicy
	ActivityTimeouts ActivityTimeoutsAttribute
	WorkflowTimeouts WorkflowTimeoutsAttribute
	WorkflowIDPrefix string
	Attributes       []Attribute
}

// DescribeAttributes resolves attrs, nearest first, as they would apply to the type named name.
func DescribeAttributes(name string, attrs []Attribute) (Description, error) {
	r := resolveAttributes(attrs)
	p, err := r.retryPolicy(nil)
	if err != nil {
		return Description{}, fmt.Errorf("%v: %w", name, err)
	}
	return Description{
		Type:             name,
		TaskQueue:        r.taskQueue,
		RetryPolicy:      p,
		ActivityTimeouts: r.activityTimeouts,
		WorkflowTimeouts: r.workflowTimeouts,
		WorkflowIDPrefix: r.idPrefix,
		Attributes:       cloneAttributes(attrs),
	}, nil
}

func (d Description) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v\n", d.Type)
	writeField := func(name string, v interface{}) {
		fmt.Fprintf(&b, "  %-28v %v\n", name+":", v)
	}
	if d.TaskQueue != "" {
		writeField("task queue", d.TaskQueue)
	}
	if p := d.RetryPolicy; p != nil {
		if p.InitialInterval != 0 {
			writeField("retry initial interval", p.InitialInterval)
		}
		if p.BackoffCoefficient != 0 {
			writeField("retry backoff coefficient", p.BackoffCoefficient)
		}
		if p.MaximumInterval != 0 {
			writeField("retry maximum interval", p.MaximumInterval)
		}
		if p.MaximumAttempts != 0 {
			writeField("retry maximum attempts", p.MaximumAttempts)
		}
		if p.NonRetryableErrorTypes != nil {
			writeField("retry non-retryable errors", strings.Join(p.NonRetryableErrorTypes, ", "))
		}
	}
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"schedule-to-close timeout", d.ActivityTimeouts.ScheduleToClose},
		{"schedule-to-start timeout", d.ActivityTimeouts.ScheduleToStart},
		{"start-to-close timeout", d.ActivityTimeouts.StartToClose},
		{"heartbeat timeout", d.ActivityTimeouts.Heartbeat},
		{"workflow execution timeout", d.WorkflowTimeouts.Execution},
		{"workflow run timeout", d.WorkflowTimeouts.Run},
		{"workflow task timeout", d.WorkflowTimeouts.Task},
	}
	for _, f := range durations {
		if f.d != 0 {
			writeField(f.name, f.d)
		}
	}
	if d.WorkflowIDPrefix != "" {
		writeField("workflow ID prefix", d.WorkflowIDPrefix)
	}
	return b.String()
}
