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

package annotations_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/contrib/annotations"
)

type (
	Auditable interface {
		AuditTrail() string
	}

	PaymentActivities struct {
		annotations.Meta `taskqueue:"payments" timeout:"start_to_close=1m"`
	}

	RefundActivities struct {
		PaymentActivities
	}

	ProvidedActivities struct{}
)

func (*RefundActivities) AuditTrail() string { return "refunds" }

func (ProvidedActivities) TemporalAttributes() []annotations.Attribute {
	return []annotations.Attribute{
		annotations.TaskQueueAttribute{Name: "provided"},
		annotations.RetryPolicyAttribute{MaximumAttempts: 4},
	}
}

func TestAttachmentStyles(t *testing.T) {
	registry := annotations.NewRegistry()
	annotations.Register[Auditable](registry, annotations.RetryPolicyAttribute{NonRetryableErrorTypes: []string{"Fraud"}})
	r := annotations.NewReader(registry)

	attrs, err := annotations.All[RefundActivities](r)
	require.NoError(t, err)
	require.Equal(t, []annotations.Attribute{
		annotations.TaskQueueAttribute{Name: "payments"},
		annotations.ActivityTimeoutsAttribute{StartToClose: time.Minute},
		annotations.RetryPolicyAttribute{NonRetryableErrorTypes: []string{"Fraud"}},
	}, attrs)

	retry, ok, err := annotations.FirstOf[annotations.RetryPolicyAttribute, ProvidedActivities](r)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int32(4), retry.MaximumAttempts)

	queues, err := annotations.AllOf[annotations.TaskQueueAttribute](r, reflect.TypeOf(ProvidedActivities{}))
	require.NoError(t, err)
	require.Equal(t, []annotations.TaskQueueAttribute{{Name: "provided"}}, queues)
}

func TestDescribeType(t *testing.T) {
	registry := annotations.NewRegistry()
	registry.RegisterDefaults(annotations.RetryPolicyAttribute{InitialInterval: time.Second})
	d, err := annotations.DescribeType(annotations.NewReader(registry), reflect.TypeOf(&PaymentActivities{}))
	require.NoError(t, err)
	require.Equal(t, "annotations_test.PaymentActivities", d.Type)
	require.Equal(t, "payments", d.TaskQueue)
	require.Equal(t, time.Minute, d.ActivityTimeouts.StartToClose)
	require.Equal(t, time.Second, d.RetryPolicy.InitialInterval)
}

type badTag struct {
	annotations.Meta `timeout:"start_to_close"`
}

func TestInvalidTag(t *testing.T) {
	_, err := annotations.All[badTag](annotations.NewReader(nil))
	require.ErrorIs(t, err, annotations.ErrInvalidTag)
	var tagErr *annotations.TagError
	require.ErrorAs(t, err, &tagErr)
	require.Equal(t, annotations.TagTimeout, tagErr.Key)
}

func TestDefaultReader(t *testing.T) {
	require.Same(t, annotations.DefaultReader().Registry(), annotations.DefaultRegistry())
	attrs, err := annotations.All[PaymentActivities](nil)
	require.NoError(t, err)
	require.Len(t, attrs, 2)
}
