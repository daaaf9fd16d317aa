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

package annotations

import (
	"reflect"

	"go.temporal.io/sdk/contrib/annotations/internal"
)

type (
	// Attribute is a declarative piece of metadata attached to a Go type.
	Attribute = internal.Attribute

	// AttributeProvider declares attributes in code. TemporalAttributes is invoked on a zero value.
	AttributeProvider = internal.AttributeProvider

	// Meta is the zero-size marker that carries attribute struct tags.
	Meta = internal.Meta

	// TaskQueueAttribute names a task queue.
	TaskQueueAttribute = internal.TaskQueueAttribute

	// RetryPolicyAttribute holds retry policy defaults.
	RetryPolicyAttribute = internal.RetryPolicyAttribute

	// ActivityTimeoutsAttribute holds activity timeout defaults.
	ActivityTimeoutsAttribute = internal.ActivityTimeoutsAttribute

	// WorkflowTimeoutsAttribute holds workflow timeout defaults.
	WorkflowTimeoutsAttribute = internal.WorkflowTimeoutsAttribute

	// WorkflowIDAttribute sets the prefix of generated workflow IDs.
	WorkflowIDAttribute = internal.WorkflowIDAttribute

	// Registry holds attributes declared outside of types, and activity/workflow name bindings.
	Registry = internal.Registry

	// Reader collects and caches the attributes of types.
	Reader = internal.Reader

	// Description is a resolved view of the attributes of one type.
	Description = internal.Description

	// TagError describes a malformed attribute tag.
	TagError = internal.TagError
)

// Struct tag keys recognized on a Meta field.
const (
	TagTaskQueue = internal.TagTaskQueue
	TagRetry     = internal.TagRetry
	TagTimeout   = internal.TagTimeout
	TagWorkflow  = internal.TagWorkflow
)

var (
	// ErrInvalidTag is matched by every *TagError.
	ErrInvalidTag = internal.ErrInvalidTag
	// ErrMissingTimeout is returned when activity options end up without a start-to-close or schedule-to-close
	// timeout.
	ErrMissingTimeout = internal.ErrMissingTimeout
	// ErrMissingTaskQueue is returned when workflow start options end up without a task queue.
	ErrMissingTaskQueue = internal.ErrMissingTaskQueue
	// ErrNotStruct is returned when binding activities from a value that is not a struct.
	ErrNotStruct = internal.ErrNotStruct
	// ErrNilClient is returned when creating a workflow stub without a client.
	ErrNilClient = internal.ErrNilClient
)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return internal.NewRegistry()
}

// NewReader creates a reader over registry.
func NewReader(registry *Registry) *Reader {
	return internal.NewReader(registry)
}

// DefaultReader returns the package-wide reader used when options carry no reader.
func DefaultReader() *Reader {
	return internal.DefaultReader()
}

// DefaultRegistry returns the registry of the default reader.
func DefaultRegistry() *Registry {
	return internal.DefaultReader().Registry()
}

// Register adds attributes for T in registry. If registry is nil the default registry is used. When T is an
// interface the attributes apply to every implementing type.
func Register[T any](registry *Registry, attrs ...Attribute) {
	if registry == nil {
		registry = DefaultRegistry()
	}
	registry.Register(reflect.TypeFor[T](), attrs...)
}

// All returns every attribute of T, nearest first. A nil reader means the default reader.
func All[T any](r *Reader) ([]Attribute, error) {
	if r == nil {
		r = DefaultReader()
	}
	return r.All(reflect.TypeFor[T]())
}

// First returns the nearest attribute of type A declared for t. A nil reader means the default reader.
func First[A Attribute](r *Reader, t reflect.Type) (A, bool, error) {
	return internal.First[A](r, t)
}

// AllOf returns every attribute of type A declared for t, nearest first. A nil reader means the default reader.
func AllOf[A Attribute](r *Reader, t reflect.Type) ([]A, error) {
	return internal.AllOf[A](r, t)
}

// FirstOf is First for a type parameter.
func FirstOf[A Attribute, T any](r *Reader) (A, bool, error) {
	return internal.First[A](r, reflect.TypeFor[T]())
}

// DescribeType resolves the attributes of t. A nil reader means the default reader.
func DescribeType(r *Reader, t reflect.Type) (Description, error) {
	if r == nil {
		r = DefaultReader()
	}
	return r.Describe(t)
}

// DescribeAttributes resolves attrs, nearest first, as they would apply to the type named name.
func DescribeAttributes(name string, attrs []Attribute) (Description, error) {
	return internal.DescribeAttributes(name, attrs)
}
