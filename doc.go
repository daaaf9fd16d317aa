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
Package annotations reduces the boilerplate of calling into the Temporal Go SDK by declaring task queues, retry
policies and timeouts once, on the Go types that group activities and workflows.

Attributes can be attached to a type in three ways.

Struct tags on an embedded Meta marker:

	type OrderActivities struct {
		annotations.Meta `taskqueue:"orders" retry:"initial=1s,backoff=2,maximum=1m,attempts=5,nonretryable=InvalidOrder" timeout:"start_to_close=30s"`
	}

An AttributeProvider method, called on a zero value:

	func (*OrderActivities) TemporalAttributes() []annotations.Attribute {
		return []annotations.Attribute{annotations.TaskQueueAttribute{Name: "orders"}}
	}

Explicit registration, which also works for interface types:

	annotations.Register[OrderService](nil, annotations.TaskQueueAttribute{Name: "orders"})

Attributes of embedded structs and of registered interfaces a type implements are inherited, nearest first. The
attributes of a type are collected once and cached by a Reader.

The workflow and client subpackages build activity, child workflow and workflow stubs that merge call-site options
with these attributes before handing them to the SDK. The retry subpackage builds retry policies, and the
interceptors subpackage applies the same defaults to plain SDK calls. The envconfig subpackage loads defaults from
files and environment variables.

This package does not schedule, retry or persist anything itself. All of that stays with the SDK and the server.
*/
package annotations
