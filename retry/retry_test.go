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

package retry_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/contrib/annotations"
	"go.temporal.io/sdk/contrib/annotations/retry"
	"go.temporal.io/sdk/temporal"
)

type ShippingActivities struct {
	annotations.Meta `retry:"initial=2s,backoff=2,maximum=1m,nonretryable=AddressInvalid"`
}

func TestPolicyFor(t *testing.T) {
	registry := annotations.NewRegistry()
	registry.RegisterDefaults(annotations.RetryPolicyAttribute{MaximumAttempts: 10, InitialInterval: time.Second})
	r := annotations.NewReader(registry)

	p, err := retry.PolicyFor[ShippingActivities](r, retry.Options{MaximumAttempts: 3})
	require.NoError(t, err)
	require.Equal(t, &temporal.RetryPolicy{
		InitialInterval:        2 * time.Second,
		BackoffCoefficient:     2,
		MaximumInterval:        time.Minute,
		MaximumAttempts:        3,
		NonRetryableErrorTypes: []string{"AddressInvalid"},
	}, p)

	p, err = retry.PolicyFor[ShippingActivities](r, retry.Options{NonRetryableErrorTypes: []string{}})
	require.NoError(t, err)
	require.Empty(t, p.NonRetryableErrorTypes)
	require.Equal(t, int32(10), p.MaximumAttempts)
}

func TestBuildPolicy(t *testing.T) {
	p, err := retry.BuildPolicy(retry.Options{})
	require.NoError(t, err)
	require.Nil(t, p)

	p, err = retry.BuildPolicy(retry.NoRetry(), annotations.RetryPolicyAttribute{MaximumAttempts: 5})
	require.NoError(t, err)
	require.Equal(t, int32(1), p.MaximumAttempts)

	_, err = retry.BuildPolicy(retry.Options{MaximumInterval: -time.Second})
	require.Error(t, err)
}
