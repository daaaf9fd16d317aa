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

// Package client contains workflow stubs that start annotated workflows through an SDK client.
package client

import (
	"context"
	"reflect"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/contrib/annotations/internal"
)

type (
	// WorkflowStubOptions are call-site options for starting workflows. Unset fields are filled from the
	// attributes of the annotated type.
	WorkflowStubOptions = internal.WorkflowStubOptions

	// WorkflowStub starts workflows through a client with merged options.
	WorkflowStub = internal.WorkflowStub
)

// NewWorkflowStub creates a workflow stub for the workflow declared by T.
//
//	stub, err := client.NewWorkflowStub[OrderWorkflowDef](c, client.WorkflowStubOptions{})
//	run, err := stub.Start(ctx, OrderWorkflow, order)
func NewWorkflowStub[T any](c client.Client, options WorkflowStubOptions) (*WorkflowStub, error) {
	return internal.NewWorkflowStub[T](c, options)
}

// NewWorkflowStubFor creates a workflow stub for the workflow declared by t.
func NewWorkflowStubFor(c client.Client, t reflect.Type, options WorkflowStubOptions) (*WorkflowStub, error) {
	return internal.NewWorkflowStubFor(c, t, options)
}

// ExecuteWorkflow starts workflow through stub and waits for its result.
func ExecuteWorkflow[R any](
	ctx context.Context,
	stub *WorkflowStub,
	workflow interface{},
	args ...interface{},
) (R, error) {
	return internal.ExecuteWorkflow[R](ctx, stub, workflow, args...)
}

// MergeStartWorkflowOptions fills unset fields of options from the attributes of t. A nil reader means the
// default reader.
func MergeStartWorkflowOptions(
	r *internal.Reader,
	t reflect.Type,
	options client.StartWorkflowOptions,
) (client.StartWorkflowOptions, error) {
	if r == nil {
		r = internal.DefaultReader()
	}
	attrs, err := r.All(t)
	if err != nil {
		return options, err
	}
	return internal.MergeStartWorkflowOptions(options, attrs)
}
