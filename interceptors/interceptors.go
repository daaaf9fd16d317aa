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

package interceptors

import (
	"fmt"

	"go.temporal.io/sdk/contrib/opentelemetry"
	"go.temporal.io/sdk/interceptor"
)

// Options are options for NewInterceptors.
type Options struct {
	// Defaults are the options of the defaults interceptor.
	Defaults DefaultsInterceptorOptions

	// DisableDefaults leaves out the defaults interceptor.
	DisableDefaults bool

	// Tracing enables OpenTelemetry tracing when non-nil. A zero value uses the global tracer provider.
	Tracing *opentelemetry.TracerOptions
}

// NewInterceptors builds the interceptor chain. The tracing interceptor, when enabled, precedes the defaults
// interceptor.
//
//	ints, err := interceptors.NewInterceptors(interceptors.Options{Tracing: &opentelemetry.TracerOptions{}})
//	c, err := client.Dial(client.Options{Interceptors: interceptors.ClientInterceptors(ints)})
//
// Workers created from that client use the same interceptors. WorkerInterceptors is for workers or test
// environments that do not share a client.
func NewInterceptors(options Options) ([]interceptor.Interceptor, error) {
	var ret []interceptor.Interceptor
	if options.Tracing != nil {
		i, err := opentelemetry.NewTracingInterceptor(*options.Tracing)
		if err != nil {
			return nil, fmt.Errorf("failed creating tracing interceptor: %w", err)
		}
		ret = append(ret, i)
	}
	if !options.DisableDefaults {
		i, err := NewDefaultsInterceptor(options.Defaults)
		if err != nil {
			return nil, fmt.Errorf("failed creating defaults interceptor: %w", err)
		}
		ret = append(ret, i)
	}
	return ret, nil
}

// ClientInterceptors converts ints for client.Options.Interceptors.
func ClientInterceptors(ints []interceptor.Interceptor) []interceptor.ClientInterceptor {
	ret := make([]interceptor.ClientInterceptor, len(ints))
	for i, v := range ints {
		ret[i] = v
	}
	return ret
}

// WorkerInterceptors converts ints for worker.Options.Interceptors.
func WorkerInterceptors(ints []interceptor.Interceptor) []interceptor.WorkerInterceptor {
	ret := make([]interceptor.WorkerInterceptor, len(ints))
	for i, v := range ints {
		ret[i] = v
	}
	return ret
}
