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
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Struct tag keys recognized on a Meta field.
const (
	TagTaskQueue = "taskqueue"
	TagRetry     = "retry"
	TagTimeout   = "timeout"
	TagWorkflow  = "workflow"
)

// nonRetryableSeparator separates error types inside the nonretryable pair since commas separate pairs.
const nonRetryableSeparator = "|"

type tagPair struct {
	key   string
	value string
}

// attributesFromTag parses the attribute tags of a Meta field declared on owner.
func attributesFromTag(owner reflect.Type, tag reflect.StructTag) ([]Attribute, error) {
	var attrs []Attribute
	if v, ok := tag.Lookup(TagTaskQueue); ok {
		if v = strings.TrimSpace(v); v == "" {
			return nil, newTagError(owner, TagTaskQueue, v, fmt.Errorf("empty task queue"))
		}
		attrs = append(attrs, TaskQueueAttribute{Name: v})
	}
	if v, ok := tag.Lookup(TagRetry); ok {
		a, err := parseRetryTag(owner, v)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
	}
	if v, ok := tag.Lookup(TagTimeout); ok {
		a, err := parseTimeoutTag(owner, v)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
	}
	if v, ok := tag.Lookup(TagWorkflow); ok {
		wa, err := parseWorkflowTag(owner, v)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, wa...)
	}
	return attrs, nil
}

func parseRetryTag(owner reflect.Type, value string) (RetryPolicyAttribute, error) {
	var a RetryPolicyAttribute
	pairs, err := splitTagPairs(owner, TagRetry, value)
	if err != nil {
		return a, err
	}
	for _, p := range pairs {
		switch p.key {
		case "initial":
			a.InitialInterval, err = time.ParseDuration(p.value)
		case "backoff":
			a.BackoffCoefficient, err = strconv.ParseFloat(p.value, 64)
		case "maximum":
			a.MaximumInterval, err = time.ParseDuration(p.value)
		case "attempts":
			var n int64
			n, err = strconv.ParseInt(p.value, 10, 32)
			a.MaximumAttempts = int32(n)
		case "nonretryable":
			a.NonRetryableErrorTypes = []string{}
			for _, s := range strings.Split(p.value, nonRetryableSeparator) {
				if s = strings.TrimSpace(s); s != "" {
					a.NonRetryableErrorTypes = append(a.NonRetryableErrorTypes, s)
				}
			}
		default:
			err = fmt.Errorf("unknown key %q", p.key)
		}
		if err != nil {
			return a, newTagError(owner, TagRetry, p.key+"="+p.value, err)
		}
	}
	return a, nil
}

func parseTimeoutTag(owner reflect.Type, value string) (ActivityTimeoutsAttribute, error) {
	var a ActivityTimeoutsAttribute
	pairs, err := splitTagPairs(owner, TagTimeout, value)
	if err != nil {
		return a, err
	}
	for _, p := range pairs {
		var d time.Duration
		if d, err = time.ParseDuration(p.value); err == nil {
			switch p.key {
			case "schedule_to_close":
				a.ScheduleToClose = d
			case "schedule_to_start":
				a.ScheduleToStart = d
			case "start_to_close":
				a.StartToClose = d
			case "heartbeat":
				a.Heartbeat = d
			default:
				err = fmt.Errorf("unknown key %q", p.key)
			}
		}
		if err != nil {
			return a, newTagError(owner, TagTimeout, p.key+"="+p.value, err)
		}
	}
	return a, nil
}

func parseWorkflowTag(owner reflect.Type, value string) ([]Attribute, error) {
	pairs, err := splitTagPairs(owner, TagWorkflow, value)
	if err != nil {
		return nil, err
	}
	var (
		timeouts WorkflowTimeoutsAttribute
		id       *WorkflowIDAttribute
	)
	for _, p := range pairs {
		if p.key == "id_prefix" {
			id = &WorkflowIDAttribute{Prefix: p.value}
			continue
		}
		var d time.Duration
		if d, err = time.ParseDuration(p.value); err == nil {
			switch p.key {
			case "execution":
				timeouts.Execution = d
			case "run":
				timeouts.Run = d
			case "task":
				timeouts.Task = d
			default:
				err = fmt.Errorf("unknown key %q", p.key)
			}
		}
		if err != nil {
			return nil, newTagError(owner, TagWorkflow, p.key+"="+p.value, err)
		}
	}
	var attrs []Attribute
	if timeouts != (WorkflowTimeoutsAttribute{}) {
		attrs = append(attrs, timeouts)
	}
	if id != nil {
		attrs = append(attrs, *id)
	}
	return attrs, nil
}

// splitTagPairs splits "a=1,b=2" into ordered pairs. Whitespace around keys and values is ignored.
func splitTagPairs(owner reflect.Type, key, value string) ([]tagPair, error) {
	var pairs []tagPair
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			return nil, newTagError(owner, key, part, fmt.Errorf("expected key=value"))
		}
		pairs = append(pairs, tagPair{key: strings.TrimSpace(k), value: strings.TrimSpace(v)})
	}
	return pairs, nil
}

func newTagError(owner reflect.Type, key, value string, err error) *TagError {
	return &TagError{Type: typeName(owner), Key: key, Value: value, Err: err}
}
