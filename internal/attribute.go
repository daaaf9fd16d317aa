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
	"reflect"
	"time"
)

type (
	// Attribute is a declarative piece of metadata attached to a Go type. Attributes supply default values for the
	// options the SDK requires when scheduling activities and workflows declared on that type.
	Attribute interface {
		AttributeName() string
	}

	// AttributeProvider can be implemented by an annotated type to declare its attributes in code rather than in
	// struct tags. The method is invoked on a zero value of the type, so it must not depend on any field values.
	AttributeProvider interface {
		TemporalAttributes() []Attribute
	}

	// Meta is a zero-size marker. Embed it in an activity or workflow definition struct and put attribute struct
	// tags on it:
	//
	//	type OrderActivities struct {
	//		annotations.Meta `taskqueue:"orders" retry:"initial=1s,backoff=2,attempts=5"`
	//	}
	Meta struct{}

	// TaskQueueAttribute names the task queue for activities or workflows declared on a type.
	TaskQueueAttribute struct {
		Name string
	}

	// RetryPolicyAttribute holds retry policy defaults. Zero values mean "not set" and are filled from attributes
	// further up the hierarchy or left for the server to default.
	RetryPolicyAttribute struct {
		InitialInterval        time.Duration
		BackoffCoefficient     float64
		MaximumInterval        time.Duration
		MaximumAttempts        int32
		NonRetryableErrorTypes []string
	}

	// ActivityTimeoutsAttribute holds activity timeout defaults.
	ActivityTimeoutsAttribute struct {
		ScheduleToClose time.Duration
		ScheduleToStart time.Duration
		StartToClose    time.Duration
		Heartbeat       time.Duration
	}

	// WorkflowTimeoutsAttribute holds workflow timeout defaults.
	WorkflowTimeoutsAttribute struct {
		Execution time.Duration
		Run       time.Duration
		Task      time.Duration
	}

	// WorkflowIDAttribute sets a prefix for workflow IDs generated by stubs.
	WorkflowIDAttribute struct {
		Prefix string
	}
)

var metaType = reflect.TypeOf(Meta{})

// isMeta reports whether a field of type t carries attribute tags. Meta may be embedded by value or by pointer.
func isMeta(t reflect.Type) bool {
	return indirectType(t) == metaType
}

// AttributeName implements Attribute.
func (TaskQueueAttribute) AttributeName() string { return "TaskQueue" }

// AttributeName implements Attribute.
func (RetryPolicyAttribute) AttributeName() string { return "RetryPolicy" }

// AttributeName implements Attribute.
func (ActivityTimeoutsAttribute) AttributeName() string { return "ActivityTimeouts" }

// AttributeName implements Attribute.
func (WorkflowTimeoutsAttribute) AttributeName() string { return "WorkflowTimeouts" }

// AttributeName implements Attribute.
func (WorkflowIDAttribute) AttributeName() string { return "WorkflowID" }

// IsZero reports whether no field is set.
func (a RetryPolicyAttribute) IsZero() bool {
	return a.InitialInterval == 0 && a.BackoffCoefficient == 0 && a.MaximumInterval == 0 &&
		a.MaximumAttempts == 0 && a.NonRetryableErrorTypes == nil
}

// normalizeAttribute turns pointer attributes into their values so lookups by value type match regardless of how
// the attribute was declared. Nil attributes return nil.
func normalizeAttribute(a Attribute) Attribute {
	if a == nil {
		return nil
	}
	v := reflect.ValueOf(a)
	if v.Kind() != reflect.Ptr {
		return a
	}
	if v.IsNil() {
		return nil
	}
	if elem, ok := v.Elem().Interface().(Attribute); ok {
		return elem
	}
	return a
}

func normalizeAttributes(attrs []Attribute) []Attribute {
	if len(attrs) == 0 {
		return nil
	}
	ret := make([]Attribute, 0, len(attrs))
	for _, a := range attrs {
		if a = normalizeAttribute(a); a != nil {
			ret = append(ret, a)
		}
	}
	return ret
}

// indirectType strips pointer indirections.
func indirectType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// typeName is the key config files use to bind attributes to a type, e.g. "orders.Activities".
func typeName(t reflect.Type) string {
	return indirectType(t).String()
}
