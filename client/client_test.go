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

package client_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/contrib/annotations"
	annotationsclient "go.temporal.io/sdk/contrib/annotations/client"
	"go.temporal.io/sdk/mocks"
)

type BillingWorkflowDef struct {
	annotations.Meta `taskqueue:"billing" workflow:"execution=1h,id_prefix=invoice-"`
}

func TestWorkflowStub(t *testing.T) {
	c := &mocks.Client{}
	run := &mocks.WorkflowRun{}
	run.On("Get", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		*args.Get(1).(*int) = 7
	}).Return(nil).Once()
	c.On("ExecuteWorkflow", mock.Anything, mock.MatchedBy(func(o client.StartWorkflowOptions) bool {
		return o.TaskQueue == "billing" && o.WorkflowExecutionTimeout == time.Hour && len(o.ID) > len("invoice-")
	}), "BillingWorkflow", "acct-1").Return(run, nil).Once()

	stub, err := annotationsclient.NewWorkflowStub[BillingWorkflowDef](c, annotationsclient.WorkflowStubOptions{})
	require.NoError(t, err)
	total, err := annotationsclient.ExecuteWorkflow[int](context.Background(), stub, "BillingWorkflow", "acct-1")
	require.NoError(t, err)
	require.Equal(t, 7, total)
	c.AssertExpectations(t)
	run.AssertExpectations(t)
}

func TestMergeStartWorkflowOptions(t *testing.T) {
	o, err := annotationsclient.MergeStartWorkflowOptions(nil, reflect.TypeOf(BillingWorkflowDef{}),
		client.StartWorkflowOptions{TaskQueue: "override"})
	require.NoError(t, err)
	require.Equal(t, "override", o.TaskQueue)
	require.Equal(t, time.Hour, o.WorkflowExecutionTimeout)
	require.Empty(t, o.ID)
}
