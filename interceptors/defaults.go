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

// Package interceptors applies annotation defaults to plain SDK calls and composes them with tracing.
package interceptors

import (
	"go.temporal.io/sdk/contrib/annotations/internal"
	"go.temporal.io/sdk/interceptor"
)

// DefaultsAppliedCounterName is incremented each time defaults are applied. It is tagged with "kind" and "type".
const DefaultsAppliedCounterName = internal.DefaultsAppliedCounterName

// Values of the "kind" tag on DefaultsAppliedCounterName.
const (
	KindActivity      = internal.KindActivity
	KindLocalActivity = internal.KindLocalActivity
	KindChildWorkflow = internal.KindChildWorkflow
	KindWorkflow      = internal.KindWorkflow
)

// DefaultsInterceptorOptions are options for NewDefaultsInterceptor.
type DefaultsInterceptorOptions = internal.DefaultsInterceptorOptions

// NewDefaultsInterceptor creates an interceptor that fills unset options of activity, local activity, child
// workflow and workflow start calls from the attributes of the types bound in the reader's registry:
//
//	registry.BindActivities(&OrderActivities{})
//	registry.BindWorkflowFunc(OrderWorkflow, reflect.TypeFor[OrderWorkflowDef]())
//
// Set it on the client. The SDK also uses client interceptors that implement WorkerInterceptor for workers created
// from that client, which covers calls made from workflows.
func NewDefaultsInterceptor(options DefaultsInterceptorOptions) (interceptor.Interceptor, error) {
	return internal.NewDefaultsInterceptor(options)
}
