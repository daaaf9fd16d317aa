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
	"errors"
	"fmt"
)

var (
	// ErrInvalidTag is returned (wrapped in a *TagError) when an attribute struct tag cannot be parsed.
	ErrInvalidTag = errors.New("invalid attribute tag")
	// ErrMissingTimeout is returned when merged activity options have neither a start-to-close nor a
	// schedule-to-close timeout.
	ErrMissingTimeout = errors.New("either StartToCloseTimeout or ScheduleToCloseTimeout is required")
	// ErrMissingTaskQueue is returned when merged workflow start options have no task queue.
	ErrMissingTaskQueue = errors.New("task queue is required")
	// ErrNotStruct is returned when a value bound as an activity set is not a struct or pointer to struct.
	ErrNotStruct = errors.New("expected a struct or pointer to struct")
	// ErrNilClient is returned when a workflow stub is created without a client.
	ErrNilClient = errors.New("client is nil")
)

// TagError describes a malformed attribute tag.
type TagError struct {
	// Type is the annotated type.
	Type string
	// Key is the struct tag key, e.g. "retry".
	Key string
	// Value is the offending tag value or pair.
	Value string
	Err   error
}

func (e *TagError) Error() string {
	return fmt.Sprintf("%v: %q tag on %v: %q: %v", ErrInvalidTag, e.Key, e.Type, e.Value, e.Err)
}

// Unwrap allows errors.Is against both ErrInvalidTag and the underlying cause.
func (e *TagError) Unwrap() []error {
	return []error{ErrInvalidTag, e.Err}
}
