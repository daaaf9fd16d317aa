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
	"reflect"

	"go.temporal.io/sdk/contrib/annotations/internal"
	"go.temporal.io/sdk/workflow"
)

type (
	// ChildWorkflowStubOptions are call-site options for child workflows.
	ChildWorkflowStubOptions = internal.ChildWorkflowStubOptions

	// ChildWorkflowStub executes child workflows with merged options.
	ChildWorkflowStub = internal.ChildWorkflowStub
)

// NewChildWorkflowStub creates a child workflow stub for the workflow declared by T.
func NewChildWorkflowStub[T any](options ChildWorkflowStubOptions) (*ChildWorkflowStub, error) {
	return internal.NewChildWorkflowStub[T](options)
}

// NewChildWorkflowStubFor creates a child workflow stub for the workflow declared by t.
func NewChildWorkflowStubFor(t reflect.Type, options ChildWorkflowStubOptions) (*ChildWorkflowStub, error) {
	return internal.NewChildWorkflowStubFor(t, options)
}

// MergeChildWorkflowOptions fills unset fields of options from the attributes of t. A nil reader means the default
// reader.
func MergeChildWorkflowOptions(
	r *internal.Reader,
	t reflect.Type,
	options workflow.ChildWorkflowOptions,
) (workflow.ChildWorkflowOptions, error) {
	attrs, err := readerOrDefault(r).All(t)
	if err != nil {
		return options, err
	}
	return internal.MergeChildWorkflowOptions(options, attrs)
}
