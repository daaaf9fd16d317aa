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

package workflow_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/contrib/annotations"
	"go.temporal.io/sdk/contrib/annotations/workflow"
	"go.temporal.io/sdk/testsuite"
	sdkworkflow "go.temporal.io/sdk/workflow"
)

type InventoryActivities struct {
	annotations.Meta `timeout:"start_to_close=15s" retry:"attempts=2"`
}

func (a *InventoryActivities) Reserve(_ context.Context, sku string) (int, error) {
	return len(sku), nil
}

type InventoryWorkflowDef struct {
	annotations.Meta `workflow:"run=10m,id_prefix=inventory-"`
}

func InventoryWorkflow(ctx sdkworkflow.Context, sku string) (int, error) {
	stub, err := workflow.NewActivityStub[InventoryActivities](workflow.ActivityStubOptions{})
	if err != nil {
		return 0, err
	}
	var a *InventoryActivities
	return workflow.ExecuteActivity(ctx, stub, a.Reserve, sku).Get(ctx)
}

func TestActivityStub(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterActivity(&InventoryActivities{})
	env.RegisterWorkflow(InventoryWorkflow)

	env.ExecuteWorkflow(InventoryWorkflow, "sku-42")
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var reserved int
	require.NoError(t, env.GetWorkflowResult(&reserved))
	require.Equal(t, 6, reserved)
}

func TestMergeOptions(t *testing.T) {
	o, err := workflow.MergeActivityOptions(nil, reflect.TypeOf(InventoryActivities{}), sdkworkflow.ActivityOptions{})
	require.NoError(t, err)
	require.Equal(t, 15*time.Second, o.StartToCloseTimeout)
	require.Equal(t, int32(2), o.RetryPolicy.MaximumAttempts)

	lo, err := workflow.MergeLocalActivityOptions(nil, reflect.TypeOf(InventoryActivities{}),
		sdkworkflow.LocalActivityOptions{StartToCloseTimeout: time.Second})
	require.NoError(t, err)
	require.Equal(t, time.Second, lo.StartToCloseTimeout)

	co, err := workflow.MergeChildWorkflowOptions(nil, reflect.TypeOf(InventoryWorkflowDef{}),
		sdkworkflow.ChildWorkflowOptions{})
	require.NoError(t, err)
	require.Equal(t, 10*time.Minute, co.WorkflowRunTimeout)

	stub, err := workflow.NewChildWorkflowStub[InventoryWorkflowDef](workflow.ChildWorkflowStubOptions{})
	require.NoError(t, err)
	require.Equal(t, 10*time.Minute, stub.Options().WorkflowRunTimeout)
}
