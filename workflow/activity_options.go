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

package workflow

import (
	"context"
	"reflect"

	"go.temporal.io/sdk/contrib/annotations/internal"
	"go.temporal.io/sdk/workflow"
)

type (
	// ActivityStubOptions are call-site options for an activity stub. Unset fields are filled from the attributes
	// of the annotated type.
	ActivityStubOptions = internal.ActivityStubOptions

	// ActivityStub executes activities with merged options.
	ActivityStub = internal.ActivityStub

	// LocalActivityStubOptions are call-site options for a local activity stub.
	LocalActivityStubOptions = internal.LocalActivityStubOptions

	// LocalActivityStub executes local activities with merged options.
	LocalActivityStub = internal.LocalActivityStub
)

// Future is a workflow.Future whose result type is known.
type Future[T any] = internal.Future[T]

// NewActivityStub creates an activity stub for the activities declared on T.
//
//	stub, err := workflow.NewActivityStub[OrderActivities](workflow.ActivityStubOptions{})
//	err = stub.Execute(ctx, a.CreateOrder, order).Get(ctx, &id)
func NewActivityStub[T any](options ActivityStubOptions) (*ActivityStub, error) {
	return internal.NewActivityStub[T](options)
}

// NewActivityStubFor creates an activity stub for the activities declared on t.
func NewActivityStubFor(t reflect.Type, options ActivityStubOptions) (*ActivityStub, error) {
	return internal.NewActivityStubFor(t, options)
}

// NewLocalActivityStub creates a local activity stub for the activities declared on T.
func NewLocalActivityStub[T any](options LocalActivityStubOptions) (*LocalActivityStub, error) {
	return internal.NewLocalActivityStub[T](options)
}

// NewLocalActivityStubFor creates a local activity stub for the activities declared on t.
func NewLocalActivityStubFor(t reflect.Type, options LocalActivityStubOptions) (*LocalActivityStub, error) {
	return internal.NewLocalActivityStubFor(t, options)
}

// ExecuteActivity executes a single-argument activity through stub and returns a typed future.
func ExecuteActivity[Req, Resp any](
	ctx workflow.Context,
	stub *ActivityStub,
	activity func(context.Context, Req) (Resp, error),
	req Req,
) Future[Resp] {
	return internal.ExecuteActivityFunc(ctx, stub, activity, req)
}

// ExecuteLocalActivity executes a single-argument local activity through stub and returns a typed future.
func ExecuteLocalActivity[Req, Resp any](
	ctx workflow.Context,
	stub *LocalActivityStub,
	activity func(context.Context, Req) (Resp, error),
	req Req,
) Future[Resp] {
	return internal.ExecuteLocalActivityFunc(ctx, stub, activity, req)
}

// MergeActivityOptions fills unset fields of options from the attributes of t. A nil reader means the default
// reader.
func MergeActivityOptions(
	r *internal.Reader,
	t reflect.Type,
	options workflow.ActivityOptions,
) (workflow.ActivityOptions, error) {
	attrs, err := readerOrDefault(r).All(t)
	if err != nil {
		return options, err
	}
	return internal.MergeActivityOptions(options, attrs)
}

// MergeLocalActivityOptions fills unset fields of options from the attributes of t.
func MergeLocalActivityOptions(
	r *internal.Reader,
	t reflect.Type,
	options workflow.LocalActivityOptions,
) (workflow.LocalActivityOptions, error) {
	attrs, err := readerOrDefault(r).All(t)
	if err != nil {
		return options, err
	}
	return internal.MergeLocalActivityOptions(options, attrs)
}

func readerOrDefault(r *internal.Reader) *internal.Reader {
	if r == nil {
		return internal.DefaultReader()
	}
	return r
}
