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
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.uber.org/multierr"
)

// RetryOptions are call-site retry parameters. Zero values mean "not set": they are filled from retry policy
// attributes or left for the server to default. For NonRetryableErrorTypes, nil means not set while an empty
// non-nil slice explicitly clears inherited values.
type RetryOptions struct {
	InitialInterval        time.Duration
	BackoffCoefficient     float64
	MaximumInterval        time.Duration
	MaximumAttempts        int32
	NonRetryableErrorTypes []string
}

// NoRetry returns options that allow a single attempt.
func NoRetry() RetryOptions {
	return RetryOptions{MaximumAttempts: 1}
}

// IsZero reports whether no field is set.
func (o RetryOptions) IsZero() bool {
	return RetryPolicyAttribute(o).IsZero()
}

// BuildRetryPolicy merges explicit options with retry policy attributes, nearest first. Each field takes the
// explicit value when set, otherwise the first attribute that sets it. The result is nil when nothing is set, which
// leaves the policy to the server. A new policy is returned on every call.
func BuildRetryPolicy(explicit RetryOptions, defaults ...RetryPolicyAttribute) (*temporal.RetryPolicy, error) {
	merged := explicit
	for _, d := range defaults {
		if merged.InitialInterval == 0 {
			merged.InitialInterval = d.InitialInterval
		}
		if merged.BackoffCoefficient == 0 {
			merged.BackoffCoefficient = d.BackoffCoefficient
		}
		if merged.MaximumInterval == 0 {
			merged.MaximumInterval = d.MaximumInterval
		}
		if merged.MaximumAttempts == 0 {
			merged.MaximumAttempts = d.MaximumAttempts
		}
		if merged.NonRetryableErrorTypes == nil {
			merged.NonRetryableErrorTypes = d.NonRetryableErrorTypes
		}
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	if merged.IsZero() {
		return nil, nil
	}
	return &temporal.RetryPolicy{
		InitialInterval:        merged.InitialInterval,
		BackoffCoefficient:     merged.BackoffCoefficient,
		MaximumInterval:        merged.MaximumInterval,
		MaximumAttempts:        merged.MaximumAttempts,
		NonRetryableErrorTypes: cloneStrings(merged.NonRetryableErrorTypes),
	}, nil
}

// Validate checks the fields that are set.
func (o RetryOptions) Validate() error {
	var errs error
	if o.InitialInterval < 0 {
		errs = multierr.Append(errs, fmt.Errorf("InitialInterval cannot be negative: %v", o.InitialInterval))
	}
	if o.MaximumInterval < 0 {
		errs = multierr.Append(errs, fmt.Errorf("MaximumInterval cannot be negative: %v", o.MaximumInterval))
	}
	if o.BackoffCoefficient != 0 && o.BackoffCoefficient < 1 {
		errs = multierr.Append(errs, fmt.Errorf("BackoffCoefficient must be at least 1: %v", o.BackoffCoefficient))
	}
	if o.InitialInterval > 0 && o.MaximumInterval > 0 && o.MaximumInterval < o.InitialInterval {
		errs = multierr.Append(errs, fmt.Errorf("MaximumInterval %v is less than InitialInterval %v",
			o.MaximumInterval, o.InitialInterval))
	}
	if o.MaximumAttempts < 0 {
		errs = multierr.Append(errs, fmt.Errorf("MaximumAttempts cannot be negative: %v", o.MaximumAttempts))
	}
	return errs
}

func retryOptionsFromPolicy(p *temporal.RetryPolicy) RetryOptions {
	if p == nil {
		return RetryOptions{}
	}
	return RetryOptions{
		InitialInterval:        p.InitialInterval,
		BackoffCoefficient:     p.BackoffCoefficient,
		MaximumInterval:        p.MaximumInterval,
		MaximumAttempts:        p.MaximumAttempts,
		NonRetryableErrorTypes: p.NonRetryableErrorTypes,
	}
}

func cloneRetryPolicy(p *temporal.RetryPolicy) *temporal.RetryPolicy {
	if p == nil {
		return nil
	}
	c := *p
	c.NonRetryableErrorTypes = cloneStrings(p.NonRetryableErrorTypes)
	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}
