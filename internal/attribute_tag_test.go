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
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tagOwner struct{}

func parseTag(t *testing.T, tag string) ([]Attribute, error) {
	t.Helper()
	return attributesFromTag(reflect.TypeOf(tagOwner{}), reflect.StructTag(tag))
}

func TestAttributesFromTag(t *testing.T) {
	attrs, err := parseTag(t,
		`taskqueue:"orders" `+
			`retry:"initial=1s, backoff=2.5,maximum=1m,attempts=5,nonretryable=BadInput|Fatal" `+
			`timeout:"schedule_to_close=1h,schedule_to_start=5m,start_to_close=30s,heartbeat=10s" `+
			`workflow:"execution=24h,run=12h,task=10s,id_prefix=order-"`)
	require.NoError(t, err)
	require.Equal(t, []Attribute{
		TaskQueueAttribute{Name: "orders"},
		RetryPolicyAttribute{
			InitialInterval:        time.Second,
			BackoffCoefficient:     2.5,
			MaximumInterval:        time.Minute,
			MaximumAttempts:        5,
			NonRetryableErrorTypes: []string{"BadInput", "Fatal"},
		},
		ActivityTimeoutsAttribute{
			ScheduleToClose: time.Hour,
			ScheduleToStart: 5 * time.Minute,
			StartToClose:    30 * time.Second,
			Heartbeat:       10 * time.Second,
		},
		WorkflowTimeoutsAttribute{Execution: 24 * time.Hour, Run: 12 * time.Hour, Task: 10 * time.Second},
		WorkflowIDAttribute{Prefix: "order-"},
	}, attrs)
}

func TestAttributesFromTag_Partial(t *testing.T) {
	attrs, err := parseTag(t, `json:"-" workflow:"id_prefix=x-"`)
	require.NoError(t, err)
	require.Equal(t, []Attribute{WorkflowIDAttribute{Prefix: "x-"}}, attrs)

	attrs, err = parseTag(t, `json:"-"`)
	require.NoError(t, err)
	require.Empty(t, attrs)
}

func TestAttributesFromTag_EmptyNonRetryable(t *testing.T) {
	attrs, err := parseTag(t, `retry:"nonretryable="`)
	require.NoError(t, err)
	require.Len(t, attrs, 1)
	retry := attrs[0].(RetryPolicyAttribute)
	// Present but empty means "no error type is non-retryable", which differs from unset.
	require.NotNil(t, retry.NonRetryableErrorTypes)
	require.Empty(t, retry.NonRetryableErrorTypes)
	require.False(t, retry.IsZero())
}

func TestAttributesFromTag_Errors(t *testing.T) {
	tests := []struct {
		name  string
		tag   string
		key   string
		value string
		cause error
	}{
		{name: "empty task queue", tag: `taskqueue:" "`, key: TagTaskQueue},
		{name: "missing equals", tag: `retry:"attempts"`, key: TagRetry, value: "attempts"},
		{name: "unknown retry key", tag: `retry:"tries=3"`, key: TagRetry, value: "tries=3"},
		{name: "bad duration", tag: `retry:"initial=soon"`, key: TagRetry, value: "initial=soon"},
		{name: "bad attempts", tag: `retry:"attempts=many"`, key: TagRetry, value: "attempts=many", cause: strconv.ErrSyntax},
		{name: "attempts overflow", tag: `retry:"attempts=99999999999"`, key: TagRetry, value: "attempts=99999999999", cause: strconv.ErrRange},
		{name: "unknown timeout key", tag: `timeout:"forever=1s"`, key: TagTimeout, value: "forever=1s"},
		{name: "bad timeout", tag: `timeout:"start_to_close=1"`, key: TagTimeout, value: "start_to_close=1"},
		{name: "unknown workflow key", tag: `workflow:"id=x"`, key: TagWorkflow, value: "id=x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseTag(t, tt.tag)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrInvalidTag)
			var tagErr *TagError
			require.True(t, errors.As(err, &tagErr))
			assert.Equal(t, "internal.tagOwner", tagErr.Type)
			assert.Equal(t, tt.key, tagErr.Key)
			if tt.value != "" {
				assert.Equal(t, tt.value, tagErr.Value)
			}
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
		})
	}
}

func TestSplitTagPairs(t *testing.T) {
	pairs, err := splitTagPairs(reflect.TypeOf(tagOwner{}), TagRetry, " a = 1 ,, b=2,")
	require.NoError(t, err)
	require.Equal(t, []tagPair{{key: "a", value: "1"}, {key: "b", value: "2"}}, pairs)
}
