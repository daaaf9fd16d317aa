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

// Package retry builds Temporal retry policies from call-site options and retry policy attributes.
package retry

import (
	"reflect"

	"go.temporal.io/sdk/contrib/annotations/internal"
	"go.temporal.io/sdk/temporal"
)

// Options are call-site retry parameters. Zero values mean "not set". For NonRetryableErrorTypes, nil means not
// set while an empty non-nil slice clears inherited values.
type Options = internal.RetryOptions

// NoRetry returns options that allow a single attempt.
func NoRetry() Options {
	return internal.NoRetry()
}

// BuildPolicy merges explicit with defaults, nearest first, field by field. The result is nil when nothing is
// set, leaving the policy to the server. Every call returns a new policy.
func BuildPolicy(explicit Options, defaults ...internal.RetryPolicyAttribute) (*temporal.RetryPolicy, error) {
	return internal.BuildRetryPolicy(explicit, defaults...)
}

// PolicyFor builds a policy for the annotated type T, using its retry policy attributes as defaults. A nil reader
// means the default reader.
func PolicyFor[T any](r *internal.Reader, explicit Options) (*temporal.RetryPolicy, error) {
	defaults, err := internal.AllOf[internal.RetryPolicyAttribute](r, reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return internal.BuildRetryPolicy(explicit, defaults...)
}
