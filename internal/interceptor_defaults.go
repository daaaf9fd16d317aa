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
	"context"
	"fmt"
	"reflect"
	"time"

	"go.temporal.io/sdk/client"
	zaplog "go.temporal.io/sdk/contrib/annotations/log"
	"go.temporal.io/sdk/interceptor"
	"go.temporal.io/sdk/log"
	"go.temporal.io/sdk/workflow"
	"go.uber.org/zap"
)

// DefaultsAppliedCounterName is incremented every time the defaults interceptor fills options for a bound type.
const DefaultsAppliedCounterName = "temporal_annotations_defaults_applied"

// Values of the "kind" tag on DefaultsAppliedCounterName.
const (
	KindActivity      = "activity"
	KindLocalActivity = "local_activity"
	KindChildWorkflow = "child_workflow"
	KindWorkflow      = "workflow"
)

type (
	// DefaultsInterceptorOptions are options for NewDefaultsInterceptor.
	DefaultsInterceptorOptions struct {
		// Reader whose registry holds the activity and workflow bindings. Defaults to the package-wide reader.
		Reader *Reader
		// Logger for client calls. Workflow calls use workflow.GetLogger. Defaults to a no-op logger.
		Logger log.Logger
		// MetricsHandler for client calls. Workflow calls use workflow.GetMetricsHandler. Optional.
		MetricsHandler client.MetricsHandler
		// DisableMetrics turns off the applied-defaults counter.
		DisableMetrics bool
	}

	defaultsInterceptor struct {
		interceptor.InterceptorBase
		reader  *Reader
		logger  log.Logger
		options DefaultsInterceptorOptions
	}

	defaultsClientOutbound struct {
		interceptor.ClientOutboundInterceptorBase
		root *defaultsInterceptor
	}

	defaultsWorkflowInbound struct {
		interceptor.WorkflowInboundInterceptorBase
		root *defaultsInterceptor
	}

	defaultsWorkflowOutbound struct {
		interceptor.WorkflowOutboundInterceptorBase
		root *defaultsInterceptor
	}
)

// NewDefaultsInterceptor creates an interceptor that fills unset activity, local activity, child workflow and
// workflow start options from the attributes of the types bound in the reader's registry. Calls for unbound
// types pass through unchanged.
func NewDefaultsInterceptor(options DefaultsInterceptorOptions) (interceptor.Interceptor, error) {
	d := &defaultsInterceptor{reader: readerOrDefault(options.Reader), logger: options.Logger, options: options}
	if d.logger == nil {
		d.logger = zaplog.NewZapLogger(zap.NewNop())
	}
	return d, nil
}

func (d *defaultsInterceptor) InterceptClient(
	next interceptor.ClientOutboundInterceptor,
) interceptor.ClientOutboundInterceptor {
	i := &defaultsClientOutbound{root: d}
	i.Next = next
	return i
}

func (d *defaultsInterceptor) InterceptWorkflow(
	ctx workflow.Context,
	next interceptor.WorkflowInboundInterceptor,
) interceptor.WorkflowInboundInterceptor {
	i := &defaultsWorkflowInbound{root: d}
	i.Next = next
	return i
}

func (d *defaultsInterceptor) attributes(t reflect.Type) ([]Attribute, error) {
	attrs, err := d.reader.All(t)
	if err != nil {
		return nil, fmt.Errorf("reading attributes of %v: %w", typeName(t), err)
	}
	return attrs, nil
}

func (d *defaultsInterceptor) applyStartDefaults(workflowType string, options *client.StartWorkflowOptions) error {
	if options == nil {
		return nil
	}
	t, ok := d.reader.Registry().WorkflowType(workflowType)
	if !ok {
		return nil
	}
	attrs, err := d.attributes(t)
	if err != nil {
		return err
	}
	merged, err := MergeStartWorkflowOptions(*options, attrs)
	if err != nil {
		return fmt.Errorf("workflow %v: %w", workflowType, err)
	}
	*options = merged
	d.logger.Debug("Applied workflow defaults", "WorkflowType", workflowType, "TaskQueue", merged.TaskQueue)
	if !d.options.DisableMetrics && d.options.MetricsHandler != nil {
		d.options.MetricsHandler.WithTags(map[string]string{"kind": KindWorkflow, "type": workflowType}).
			Counter(DefaultsAppliedCounterName).Inc(1)
	}
	return nil
}

func (d *defaultsInterceptor) recordApplied(ctx workflow.Context, kind, name string) {
	workflow.GetLogger(ctx).Debug("Applied defaults", "Kind", kind, "Type", name)
	if d.options.DisableMetrics {
		return
	}
	workflow.GetMetricsHandler(ctx).WithTags(map[string]string{"kind": kind, "type": name}).
		Counter(DefaultsAppliedCounterName).Inc(1)
}

func (c *defaultsClientOutbound) ExecuteWorkflow(
	ctx context.Context,
	in *interceptor.ClientExecuteWorkflowInput,
) (client.WorkflowRun, error) {
	if err := c.root.applyStartDefaults(in.WorkflowType, in.Options); err != nil {
		return nil, err
	}
	return c.Next.ExecuteWorkflow(ctx, in)
}

func (c *defaultsClientOutbound) SignalWithStartWorkflow(
	ctx context.Context,
	in *interceptor.ClientSignalWithStartWorkflowInput,
) (client.WorkflowRun, error) {
	if err := c.root.applyStartDefaults(in.WorkflowType, in.Options); err != nil {
		return nil, err
	}
	return c.Next.SignalWithStartWorkflow(ctx, in)
}

func (w *defaultsWorkflowInbound) Init(outbound interceptor.WorkflowOutboundInterceptor) error {
	i := &defaultsWorkflowOutbound{root: w.root}
	i.Next = outbound
	return w.Next.Init(i)
}

func (w *defaultsWorkflowOutbound) ExecuteActivity(
	ctx workflow.Context,
	activityType string,
	args ...interface{},
) workflow.Future {
	t, ok := w.root.reader.Registry().ActivityType(activityType)
	if !ok {
		return w.Next.ExecuteActivity(ctx, activityType, args...)
	}
	attrs, err := w.root.attributes(t)
	if err != nil {
		return failedFuture(ctx, err)
	}
	inherited := inheritedFrom(ctx)
	merged, err := MergeActivityOptions(inherited.clearActivity(workflow.GetActivityOptions(ctx)), attrs)
	if err != nil {
		return failedFuture(ctx, fmt.Errorf("activity %v: %w", activityType, err))
	}
	ctx = workflow.WithActivityOptions(ctx, inherited.restoreActivity(merged))
	w.root.recordApplied(ctx, KindActivity, activityType)
	return w.Next.ExecuteActivity(ctx, activityType, args...)
}

func (w *defaultsWorkflowOutbound) ExecuteLocalActivity(
	ctx workflow.Context,
	activityType string,
	args ...interface{},
) workflow.Future {
	t, ok := w.root.reader.Registry().ActivityType(activityType)
	if !ok {
		return w.Next.ExecuteLocalActivity(ctx, activityType, args...)
	}
	attrs, err := w.root.attributes(t)
	if err != nil {
		return failedFuture(ctx, err)
	}
	merged, err := MergeLocalActivityOptions(workflow.GetLocalActivityOptions(ctx), attrs)
	if err != nil {
		return failedFuture(ctx, fmt.Errorf("local activity %v: %w", activityType, err))
	}
	ctx = workflow.WithLocalActivityOptions(ctx, merged)
	w.root.recordApplied(ctx, KindLocalActivity, activityType)
	return w.Next.ExecuteLocalActivity(ctx, activityType, args...)
}

func (w *defaultsWorkflowOutbound) ExecuteChildWorkflow(
	ctx workflow.Context,
	childWorkflowType string,
	args ...interface{},
) workflow.ChildWorkflowFuture {
	t, ok := w.root.reader.Registry().WorkflowType(childWorkflowType)
	if !ok {
		return w.Next.ExecuteChildWorkflow(ctx, childWorkflowType, args...)
	}
	// There is no way to build a failed ChildWorkflowFuture, so errors are logged and the call proceeds with the
	// caller's options.
	attrs, err := w.root.attributes(t)
	if err == nil {
		var merged workflow.ChildWorkflowOptions
		inherited := inheritedFrom(ctx)
		options := inherited.clearChild(workflow.GetChildWorkflowOptions(ctx))
		if merged, err = MergeChildWorkflowOptions(options, attrs); err == nil {
			ctx = workflow.WithChildOptions(ctx, inherited.restoreChild(merged))
			w.root.recordApplied(ctx, KindChildWorkflow, childWorkflowType)
		}
	}
	if err != nil {
		workflow.GetLogger(ctx).Error("Failed applying child workflow defaults",
			"WorkflowType", childWorkflowType, "Error", err)
	}
	return w.Next.ExecuteChildWorkflow(ctx, childWorkflowType, args...)
}

// inheritedOptions are the values every workflow context starts with, copied from the running workflow. Options
// equal to them were not set by the caller.
type inheritedOptions struct {
	taskQueue string
	execution time.Duration
	run       time.Duration
	task      time.Duration
}

func inheritedFrom(ctx workflow.Context) inheritedOptions {
	return inheritedFromInfo(workflow.GetInfo(ctx))
}

func inheritedFromInfo(info *workflow.Info) inheritedOptions {
	return inheritedOptions{
		taskQueue: info.TaskQueueName,
		execution: info.WorkflowExecutionTimeout,
		run:       info.WorkflowRunTimeout,
		task:      info.WorkflowTaskTimeout,
	}
}

func (in inheritedOptions) clearActivity(options workflow.ActivityOptions) workflow.ActivityOptions {
	clearString(&options.TaskQueue, in.taskQueue)
	return options
}

func (in inheritedOptions) restoreActivity(options workflow.ActivityOptions) workflow.ActivityOptions {
	fillString(&options.TaskQueue, in.taskQueue)
	return options
}

func (in inheritedOptions) clearChild(options workflow.ChildWorkflowOptions) workflow.ChildWorkflowOptions {
	clearString(&options.TaskQueue, in.taskQueue)
	clearDuration(&options.WorkflowExecutionTimeout, in.execution)
	clearDuration(&options.WorkflowRunTimeout, in.run)
	clearDuration(&options.WorkflowTaskTimeout, in.task)
	return options
}

func (in inheritedOptions) restoreChild(options workflow.ChildWorkflowOptions) workflow.ChildWorkflowOptions {
	fillString(&options.TaskQueue, in.taskQueue)
	fillDuration(&options.WorkflowExecutionTimeout, in.execution)
	fillDuration(&options.WorkflowRunTimeout, in.run)
	fillDuration(&options.WorkflowTaskTimeout, in.task)
	return options
}

func clearString(dst *string, inherited string) {
	if *dst == inherited {
		*dst = ""
	}
}

func clearDuration(dst *time.Duration, inherited time.Duration) {
	if *dst == inherited {
		*dst = 0
	}
}

func failedFuture(ctx workflow.Context, err error) workflow.Future {
	f, set := workflow.NewFuture(ctx)
	set.SetError(err)
	return f
}
