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

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/workflow"
)

type (
	// WorkflowStubOptions are call-site options for starting workflows from a client. Anything left unset is
	// filled from the attributes of the annotated type.
	WorkflowStubOptions struct {
		// ID of the workflow. When empty each start generates one, prefixed by the WorkflowID attribute if any.
		ID                                       string
		TaskQueue                                string
		WorkflowExecutionTimeout                 time.Duration
		WorkflowRunTimeout                       time.Duration
		WorkflowTaskTimeout                      time.Duration
		WorkflowIDReusePolicy                    enumspb.WorkflowIdReusePolicy
		WorkflowExecutionErrorWhenAlreadyStarted bool
		CronSchedule                             string
		Memo                                     map[string]interface{}
		StartDelay                               time.Duration
		RetryOptions                             RetryOptions
		Reader                                   *Reader
	}

	// WorkflowStub starts workflows through a client with merged options.
	WorkflowStub struct {
		client   client.Client
		options  client.StartWorkflowOptions
		idPrefix string
	}

	// ChildWorkflowStubOptions are call-site options for child workflows.
	ChildWorkflowStubOptions struct {
		Namespace string
		// WorkflowID of the child. When empty and the type declares an ID prefix, each execution generates
		// prefix + UUID inside a side effect. Otherwise the SDK picks the ID.
		WorkflowID               string
		TaskQueue                string
		WorkflowExecutionTimeout time.Duration
		WorkflowRunTimeout       time.Duration
		WorkflowTaskTimeout      time.Duration
		WaitForCancellation      bool
		WorkflowIDReusePolicy    enumspb.WorkflowIdReusePolicy
		ParentClosePolicy        enumspb.ParentClosePolicy
		CronSchedule             string
		Memo                     map[string]interface{}
		RetryOptions             RetryOptions
		Reader                   *Reader
	}

	// ChildWorkflowStub executes child workflows with merged options.
	ChildWorkflowStub struct {
		options  workflow.ChildWorkflowOptions
		idPrefix string
	}
)

// NewWorkflowStub creates a client-side workflow stub from the attributes of T.
func NewWorkflowStub[T any](c client.Client, options WorkflowStubOptions) (*WorkflowStub, error) {
	return NewWorkflowStubFor(c, reflect.TypeFor[T](), options)
}

// NewWorkflowStubFor creates a client-side workflow stub from the attributes of t.
func NewWorkflowStubFor(c client.Client, t reflect.Type, options WorkflowStubOptions) (*WorkflowStub, error) {
	if c == nil {
		return nil, fmt.Errorf("workflow stub for %v: %w", typeName(t), ErrNilClient)
	}
	attrs, err := readerOrDefault(options.Reader).All(t)
	if err != nil {
		return nil, err
	}
	retryPolicy, err := BuildRetryPolicy(options.RetryOptions)
	if err != nil {
		return nil, fmt.Errorf("workflow stub for %v: invalid retry options: %w", typeName(t), err)
	}
	merged, err := MergeStartWorkflowOptions(client.StartWorkflowOptions{
		ID:                                       options.ID,
		TaskQueue:                                options.TaskQueue,
		WorkflowExecutionTimeout:                 options.WorkflowExecutionTimeout,
		WorkflowRunTimeout:                       options.WorkflowRunTimeout,
		WorkflowTaskTimeout:                      options.WorkflowTaskTimeout,
		WorkflowIDReusePolicy:                    options.WorkflowIDReusePolicy,
		WorkflowExecutionErrorWhenAlreadyStarted: options.WorkflowExecutionErrorWhenAlreadyStarted,
		CronSchedule:                             options.CronSchedule,
		Memo:                                     options.Memo,
		StartDelay:                               options.StartDelay,
		RetryPolicy:                              retryPolicy,
	}, attrs)
	if err != nil {
		return nil, fmt.Errorf("workflow stub for %v: %w", typeName(t), err)
	}
	if merged.TaskQueue == "" {
		return nil, fmt.Errorf("workflow stub for %v: %w", typeName(t), ErrMissingTaskQueue)
	}
	return &WorkflowStub{client: c, options: merged, idPrefix: resolveAttributes(attrs).idPrefix}, nil
}

// Options returns a copy of the merged start options. The ID is empty unless set explicitly.
func (s *WorkflowStub) Options() client.StartWorkflowOptions {
	o := s.options
	o.RetryPolicy = cloneRetryPolicy(o.RetryPolicy)
	return o
}

// StartOptions returns the options for a single start, generating an ID when none was set.
func (s *WorkflowStub) StartOptions() client.StartWorkflowOptions {
	o := s.Options()
	if o.ID == "" {
		o.ID = s.idPrefix + uuid.NewString()
	}
	return o
}

// Start starts workflow. See client.Client.ExecuteWorkflow.
func (s *WorkflowStub) Start(ctx context.Context, workflow interface{}, args ...interface{}) (client.WorkflowRun, error) {
	return s.client.ExecuteWorkflow(ctx, s.StartOptions(), workflow, args...)
}

// SignalWithStart signals the workflow, starting it first if needed. See client.Client.SignalWithStartWorkflow.
func (s *WorkflowStub) SignalWithStart(
	ctx context.Context,
	signalName string,
	signalArg interface{},
	workflow interface{},
	args ...interface{},
) (client.WorkflowRun, error) {
	o := s.StartOptions()
	return s.client.SignalWithStartWorkflow(ctx, o.ID, signalName, signalArg, o, workflow, args...)
}

// ExecuteWorkflow starts workflow through stub and waits for its result.
func ExecuteWorkflow[R any](
	ctx context.Context,
	stub *WorkflowStub,
	workflow interface{},
	args ...interface{},
) (R, error) {
	var result R
	run, err := stub.Start(ctx, workflow, args...)
	if err != nil {
		return result, err
	}
	err = run.Get(ctx, &result)
	return result, err
}

// NewChildWorkflowStub creates a child workflow stub from the attributes of T.
func NewChildWorkflowStub[T any](options ChildWorkflowStubOptions) (*ChildWorkflowStub, error) {
	return NewChildWorkflowStubFor(reflect.TypeFor[T](), options)
}

// NewChildWorkflowStubFor creates a child workflow stub from the attributes of t.
func NewChildWorkflowStubFor(t reflect.Type, options ChildWorkflowStubOptions) (*ChildWorkflowStub, error) {
	attrs, err := readerOrDefault(options.Reader).All(t)
	if err != nil {
		return nil, err
	}
	retryPolicy, err := BuildRetryPolicy(options.RetryOptions)
	if err != nil {
		return nil, fmt.Errorf("child workflow stub for %v: invalid retry options: %w", typeName(t), err)
	}
	merged, err := MergeChildWorkflowOptions(workflow.ChildWorkflowOptions{
		Namespace:                options.Namespace,
		WorkflowID:               options.WorkflowID,
		TaskQueue:                options.TaskQueue,
		WorkflowExecutionTimeout: options.WorkflowExecutionTimeout,
		WorkflowRunTimeout:       options.WorkflowRunTimeout,
		WorkflowTaskTimeout:      options.WorkflowTaskTimeout,
		WaitForCancellation:      options.WaitForCancellation,
		WorkflowIDReusePolicy:    options.WorkflowIDReusePolicy,
		ParentClosePolicy:        options.ParentClosePolicy,
		CronSchedule:             options.CronSchedule,
		Memo:                     options.Memo,
		RetryPolicy:              retryPolicy,
	}, attrs)
	if err != nil {
		return nil, fmt.Errorf("child workflow stub for %v: %w", typeName(t), err)
	}
	return &ChildWorkflowStub{options: merged, idPrefix: resolveAttributes(attrs).idPrefix}, nil
}

// Options returns a copy of the merged child workflow options.
func (s *ChildWorkflowStub) Options() workflow.ChildWorkflowOptions {
	o := s.options
	o.RetryPolicy = cloneRetryPolicy(o.RetryPolicy)
	return o
}

// WithContext returns a copy of ctx carrying the stub options. A prefixed ID is generated when configured.
func (s *ChildWorkflowStub) WithContext(ctx workflow.Context) workflow.Context {
	o := s.Options()
	if o.WorkflowID == "" && s.idPrefix != "" {
		var suffix string
		err := workflow.SideEffect(ctx, func(workflow.Context) interface{} {
			return uuid.NewString()
		}).Get(&suffix)
		if err != nil {
			workflow.GetLogger(ctx).Warn("Failed generating child workflow ID, leaving it to the SDK",
				"Error", err)
		} else {
			o.WorkflowID = s.idPrefix + suffix
		}
	}
	return workflow.WithChildOptions(ctx, o)
}

// Execute starts a child workflow with the stub options. See workflow.ExecuteChildWorkflow.
func (s *ChildWorkflowStub) Execute(
	ctx workflow.Context,
	childWorkflow interface{},
	args ...interface{},
) workflow.ChildWorkflowFuture {
	return workflow.ExecuteChildWorkflow(s.WithContext(ctx), childWorkflow, args...)
}
