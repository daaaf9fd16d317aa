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

	"go.temporal.io/sdk/workflow"
)

type (
	// ActivityStubOptions are call-site options for an activity stub. Anything left unset is filled from the
	// attributes of the annotated type.
	ActivityStubOptions struct {
		TaskQueue              string
		ScheduleToCloseTimeout time.Duration
		ScheduleToStartTimeout time.Duration
		StartToCloseTimeout    time.Duration
		HeartbeatTimeout       time.Duration
		WaitForCancellation    bool
		ActivityID             string
		RetryOptions           RetryOptions
		// Reader to read attributes with. Defaults to the package-wide reader.
		Reader *Reader
	}

	// ActivityStub executes activities with options merged from call-site values and type attributes.
	ActivityStub struct {
		options workflow.ActivityOptions
	}

	// LocalActivityStubOptions are call-site options for a local activity stub.
	LocalActivityStubOptions struct {
		ScheduleToCloseTimeout time.Duration
		StartToCloseTimeout    time.Duration
		RetryOptions           RetryOptions
		Reader                 *Reader
	}

	// LocalActivityStub executes local activities with merged options.
	LocalActivityStub struct {
		options workflow.LocalActivityOptions
	}

	// Future is a workflow.Future whose result type is known.
	Future[T any] struct {
		workflow.Future
	}
)

// NewActivityStub creates an activity stub from the attributes of T.
func NewActivityStub[T any](options ActivityStubOptions) (*ActivityStub, error) {
	return NewActivityStubFor(reflect.TypeFor[T](), options)
}

// NewActivityStubFor creates an activity stub from the attributes of t.
func NewActivityStubFor(t reflect.Type, options ActivityStubOptions) (*ActivityStub, error) {
	attrs, err := readerOrDefault(options.Reader).All(t)
	if err != nil {
		return nil, err
	}
	retryPolicy, err := BuildRetryPolicy(options.RetryOptions)
	if err != nil {
		return nil, fmt.Errorf("activity stub for %v: invalid retry options: %w", typeName(t), err)
	}
	merged, err := MergeActivityOptions(workflow.ActivityOptions{
		TaskQueue:              options.TaskQueue,
		ScheduleToCloseTimeout: options.ScheduleToCloseTimeout,
		ScheduleToStartTimeout: options.ScheduleToStartTimeout,
		StartToCloseTimeout:    options.StartToCloseTimeout,
		HeartbeatTimeout:       options.HeartbeatTimeout,
		WaitForCancellation:    options.WaitForCancellation,
		ActivityID:             options.ActivityID,
		RetryPolicy:            retryPolicy,
	}, attrs)
	if err != nil {
		return nil, fmt.Errorf("activity stub for %v: %w", typeName(t), err)
	}
	if merged.StartToCloseTimeout == 0 && merged.ScheduleToCloseTimeout == 0 {
		return nil, fmt.Errorf("activity stub for %v: %w", typeName(t), ErrMissingTimeout)
	}
	return &ActivityStub{options: merged}, nil
}

// Options returns a copy of the merged activity options.
func (s *ActivityStub) Options() workflow.ActivityOptions {
	o := s.options
	o.RetryPolicy = cloneRetryPolicy(o.RetryPolicy)
	return o
}

// WithContext returns a copy of ctx carrying the stub options.
func (s *ActivityStub) WithContext(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, s.Options())
}

// Execute schedules activity with the stub options. See workflow.ExecuteActivity.
func (s *ActivityStub) Execute(ctx workflow.Context, activity interface{}, args ...interface{}) workflow.Future {
	return workflow.ExecuteActivity(s.WithContext(ctx), activity, args...)
}

// NewLocalActivityStub creates a local activity stub from the attributes of T.
func NewLocalActivityStub[T any](options LocalActivityStubOptions) (*LocalActivityStub, error) {
	return NewLocalActivityStubFor(reflect.TypeFor[T](), options)
}

// NewLocalActivityStubFor creates a local activity stub from the attributes of t.
func NewLocalActivityStubFor(t reflect.Type, options LocalActivityStubOptions) (*LocalActivityStub, error) {
	attrs, err := readerOrDefault(options.Reader).All(t)
	if err != nil {
		return nil, err
	}
	retryPolicy, err := BuildRetryPolicy(options.RetryOptions)
	if err != nil {
		return nil, fmt.Errorf("local activity stub for %v: invalid retry options: %w", typeName(t), err)
	}
	merged, err := MergeLocalActivityOptions(workflow.LocalActivityOptions{
		ScheduleToCloseTimeout: options.ScheduleToCloseTimeout,
		StartToCloseTimeout:    options.StartToCloseTimeout,
		RetryPolicy:            retryPolicy,
	}, attrs)
	if err != nil {
		return nil, fmt.Errorf("local activity stub for %v: %w", typeName(t), err)
	}
	if merged.StartToCloseTimeout == 0 && merged.ScheduleToCloseTimeout == 0 {
		return nil, fmt.Errorf("local activity stub for %v: %w", typeName(t), ErrMissingTimeout)
	}
	return &LocalActivityStub{options: merged}, nil
}

// Options returns a copy of the merged local activity options.
func (s *LocalActivityStub) Options() workflow.LocalActivityOptions {
	o := s.options
	o.RetryPolicy = cloneRetryPolicy(o.RetryPolicy)
	return o
}

// WithContext returns a copy of ctx carrying the stub options.
func (s *LocalActivityStub) WithContext(ctx workflow.Context) workflow.Context {
	return workflow.WithLocalActivityOptions(ctx, s.Options())
}

// Execute runs activity locally with the stub options. See workflow.ExecuteLocalActivity.
func (s *LocalActivityStub) Execute(ctx workflow.Context, activity interface{}, args ...interface{}) workflow.Future {
	return workflow.ExecuteLocalActivity(s.WithContext(ctx), activity, args...)
}

// Get blocks until the future is ready and returns its typed result.
func (f Future[T]) Get(ctx workflow.Context) (T, error) {
	var v T
	err := f.Future.Get(ctx, &v)
	return v, err
}

// ExecuteActivityFunc executes a single-argument activity function through stub and returns a typed future.
func ExecuteActivityFunc[Req, Resp any](
	ctx workflow.Context,
	stub *ActivityStub,
	activity func(context.Context, Req) (Resp, error),
	req Req,
) Future[Resp] {
	return Future[Resp]{Future: stub.Execute(ctx, activity, req)}
}

// ExecuteLocalActivityFunc is ExecuteActivityFunc for local activities.
func ExecuteLocalActivityFunc[Req, Resp any](
	ctx workflow.Context,
	stub *LocalActivityStub,
	activity func(context.Context, Req) (Resp, error),
	req Req,
) Future[Resp] {
	return Future[Resp]{Future: stub.Execute(ctx, activity, req)}
}
