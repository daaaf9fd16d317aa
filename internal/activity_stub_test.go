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
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"
)

type (
	stubActivities struct {
		Meta `timeout:"start_to_close=30s,heartbeat=5s" retry:"initial=1s,attempts=3"`
	}

	untimedActivities struct {
		Meta `retry:"attempts=3"`
	}

	activityStubTestSuite struct {
		suite.Suite
		testsuite.WorkflowTestSuite
		env *testsuite.TestWorkflowEnvironment
	}
)

func (a *stubActivities) Echo(_ context.Context, s string) (string, error) {
	return s, nil
}

// Flaky fails until its third attempt.
func (a *stubActivities) Flaky(ctx context.Context, s string) (string, error) {
	if activity.GetInfo(ctx).Attempt < 3 {
		return "", errors.New("not yet")
	}
	return s, nil
}

func localEcho(_ context.Context, s string) (string, error) {
	return "local " + s, nil
}

func TestActivityStubTestSuite(t *testing.T) {
	suite.Run(t, new(activityStubTestSuite))
}

func (s *activityStubTestSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	s.env.RegisterActivity(&stubActivities{})
}

func (s *activityStubTestSuite) TearDownTest() {
	s.env.AssertExpectations(s.T())
}

func echoWorkflow(ctx workflow.Context, in string) (string, error) {
	stub, err := NewActivityStub[stubActivities](ActivityStubOptions{})
	if err != nil {
		return "", err
	}
	var a *stubActivities
	return ExecuteActivityFunc(ctx, stub, a.Echo, in).Get(ctx)
}

func flakyWorkflow(ctx workflow.Context, in string) (string, error) {
	stub, err := NewActivityStub[stubActivities](ActivityStubOptions{})
	if err != nil {
		return "", err
	}
	var a *stubActivities
	return ExecuteActivityFunc(ctx, stub, a.Flaky, in).Get(ctx)
}

func noRetryWorkflow(ctx workflow.Context, in string) (string, error) {
	stub, err := NewActivityStub[stubActivities](ActivityStubOptions{RetryOptions: NoRetry()})
	if err != nil {
		return "", err
	}
	var a *stubActivities
	return ExecuteActivityFunc(ctx, stub, a.Flaky, in).Get(ctx)
}

func localEchoWorkflow(ctx workflow.Context, in string) (string, error) {
	stub, err := NewLocalActivityStub[stubActivities](LocalActivityStubOptions{})
	if err != nil {
		return "", err
	}
	return ExecuteLocalActivityFunc(ctx, stub, localEcho, in).Get(ctx)
}

type stubOptionsResult struct {
	StartToClose time.Duration
	Heartbeat    time.Duration
	Attempts     int32
}

func activityOptionsWorkflow(ctx workflow.Context) (stubOptionsResult, error) {
	stub, err := NewActivityStub[stubActivities](ActivityStubOptions{HeartbeatTimeout: time.Second})
	if err != nil {
		return stubOptionsResult{}, err
	}
	o := workflow.GetActivityOptions(stub.WithContext(ctx))
	return stubOptionsResult{
		StartToClose: o.StartToCloseTimeout,
		Heartbeat:    o.HeartbeatTimeout,
		Attempts:     o.RetryPolicy.MaximumAttempts,
	}, nil
}

func (s *activityStubTestSuite) Test_Execute() {
	s.env.ExecuteWorkflow(echoWorkflow, "hello")
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
	var result string
	s.NoError(s.env.GetWorkflowResult(&result))
	s.Equal("hello", result)
}

func (s *activityStubTestSuite) Test_RetryFromAttributes() {
	s.env.ExecuteWorkflow(flakyWorkflow, "eventually")
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
	var result string
	s.NoError(s.env.GetWorkflowResult(&result))
	s.Equal("eventually", result)
}

func (s *activityStubTestSuite) Test_ExplicitRetryWins() {
	s.env.ExecuteWorkflow(noRetryWorkflow, "never")
	s.True(s.env.IsWorkflowCompleted())
	err := s.env.GetWorkflowError()
	s.Error(err)
	var appErr *temporal.ApplicationError
	s.True(errors.As(err, &appErr))
	s.Contains(appErr.Error(), "not yet")
}

func (s *activityStubTestSuite) Test_LocalActivity() {
	s.env.ExecuteWorkflow(localEchoWorkflow, "hello")
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
	var result string
	s.NoError(s.env.GetWorkflowResult(&result))
	s.Equal("local hello", result)
}

func (s *activityStubTestSuite) Test_WithContext() {
	s.env.ExecuteWorkflow(activityOptionsWorkflow)
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
	var result stubOptionsResult
	s.NoError(s.env.GetWorkflowResult(&result))
	s.Equal(stubOptionsResult{StartToClose: 30 * time.Second, Heartbeat: time.Second, Attempts: 3}, result)
}

func TestNewActivityStub(t *testing.T) {
	stub, err := NewActivityStubFor(reflect.TypeOf(&stubActivities{}), ActivityStubOptions{
		TaskQueue:    "explicit",
		ActivityID:   "id",
		RetryOptions: RetryOptions{MaximumAttempts: 9},
	})
	require.NoError(t, err)
	o := stub.Options()
	require.Equal(t, "explicit", o.TaskQueue)
	require.Equal(t, "id", o.ActivityID)
	require.Equal(t, 30*time.Second, o.StartToCloseTimeout)
	require.Equal(t, 5*time.Second, o.HeartbeatTimeout)
	require.Equal(t, &temporal.RetryPolicy{InitialInterval: time.Second, MaximumAttempts: 9}, o.RetryPolicy)

	// Options hands out copies.
	o.RetryPolicy.MaximumAttempts = 100
	require.Equal(t, int32(9), stub.Options().RetryPolicy.MaximumAttempts)
}

func TestNewActivityStub_MissingTimeout(t *testing.T) {
	_, err := NewActivityStub[untimedActivities](ActivityStubOptions{})
	require.ErrorIs(t, err, ErrMissingTimeout)
	require.ErrorContains(t, err, "internal.untimedActivities")

	_, err = NewActivityStub[untimedActivities](ActivityStubOptions{ScheduleToCloseTimeout: time.Minute})
	require.NoError(t, err)

	_, err = NewLocalActivityStub[untimedActivities](LocalActivityStubOptions{})
	require.ErrorIs(t, err, ErrMissingTimeout)
}

func TestNewActivityStub_Errors(t *testing.T) {
	_, err := NewActivityStub[stubActivities](ActivityStubOptions{
		RetryOptions: RetryOptions{BackoffCoefficient: 0.5},
	})
	require.ErrorContains(t, err, "invalid retry options")

	_, err = NewActivityStub[badTagType](ActivityStubOptions{StartToCloseTimeout: time.Second})
	require.ErrorIs(t, err, ErrInvalidTag)

	_, err = NewLocalActivityStub[badTagType](LocalActivityStubOptions{StartToCloseTimeout: time.Second})
	require.ErrorIs(t, err, ErrInvalidTag)
}

func TestNewActivityStub_Reader(t *testing.T) {
	registry := NewRegistry()
	registry.RegisterName("internal.untimedActivities", ActivityTimeoutsAttribute{StartToClose: time.Minute})
	stub, err := NewLocalActivityStub[untimedActivities](LocalActivityStubOptions{Reader: NewReader(registry)})
	require.NoError(t, err)
	require.Equal(t, time.Minute, stub.Options().StartToCloseTimeout)
	require.Equal(t, int32(3), stub.Options().RetryPolicy.MaximumAttempts)
}
