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

/*
Package workflow contains stubs for use inside workflow code.

A stub is created once per annotated type and merges call-site options with the type's attributes:

	type OrderActivities struct {
		annotations.Meta `taskqueue:"orders" timeout:"start_to_close=30s" retry:"attempts=5"`
	}

	func OrderWorkflow(ctx sdkworkflow.Context, order Order) (string, error) {
		stub, err := workflow.NewActivityStub[OrderActivities](workflow.ActivityStubOptions{})
		if err != nil {
			return "", err
		}
		var a *OrderActivities
		return workflow.ExecuteActivity(ctx, stub, a.CreateOrder, order).Get(ctx)
	}

Creating a stub does no I/O and reads cached type metadata, so it is safe in workflow code. Child workflow stubs
that generate IDs do so inside workflow.SideEffect to stay deterministic on replay.
*/
package workflow
