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
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
)

type (
	// Registry holds attributes declared outside of the annotated types themselves, and the bindings from activity
	// and workflow type names to annotated Go types used by the defaults interceptor.
	//
	// A Registry is safe for concurrent use. Every mutation bumps its version, which invalidates the caches of
	// readers built on it.
	Registry struct {
		version atomic.Uint64

		mu         sync.RWMutex
		types      map[reflect.Type][]Attribute
		interfaces []registeredInterface
		named      map[string][]Attribute
		defaults   []Attribute
		activities map[string]reflect.Type
		workflows  map[string]reflect.Type
	}

	registeredInterface struct {
		t     reflect.Type
		attrs []Attribute
	}
)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:      map[reflect.Type][]Attribute{},
		named:      map[string][]Attribute{},
		activities: map[string]reflect.Type{},
		workflows:  map[string]reflect.Type{},
	}
}

// Register appends attributes to t. When t is an interface type the attributes apply to every type implementing it.
// Pointer types are registered under their element type.
func (r *Registry) Register(t reflect.Type, attrs ...Attribute) {
	t = indirectType(t)
	if t == nil {
		return
	}
	attrs = normalizeAttributes(attrs)
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.Kind() == reflect.Interface {
		found := false
		for i := range r.interfaces {
			if r.interfaces[i].t == t {
				r.interfaces[i].attrs = append(r.interfaces[i].attrs, attrs...)
				found = true
				break
			}
		}
		if !found {
			r.interfaces = append(r.interfaces, registeredInterface{t: t, attrs: attrs})
		}
	}
	r.types[t] = append(r.types[t], attrs...)
	r.version.Add(1)
}

// RegisterName replaces the attributes bound to a type name such as "orders.Activities". Name bindings rank below
// everything declared in code and are how configuration files contribute defaults.
func (r *Registry) RegisterName(name string, attrs ...Attribute) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(attrs) == 0 {
		delete(r.named, name)
	} else {
		r.named[name] = normalizeAttributes(attrs)
	}
	r.version.Add(1)
}

// RegisterDefaults replaces the global defaults that apply to every type, below all other sources.
func (r *Registry) RegisterDefaults(attrs ...Attribute) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaults = normalizeAttributes(attrs)
	r.version.Add(1)
}

// BindActivities binds every exported method of the activity struct v, as registered by worker.RegisterActivity,
// to the type of v.
func (r *Registry) BindActivities(v interface{}) error {
	return r.BindActivitiesWithPrefix(v, "")
}

// BindActivitiesWithPrefix is BindActivities for structs registered with activity.RegisterOptions.Name set, which
// the SDK uses as a method name prefix.
func (r *Registry) BindActivitiesWithPrefix(v interface{}, prefix string) error {
	if v == nil {
		return ErrNotStruct
	}
	vt := reflect.TypeOf(v)
	t := indirectType(vt)
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("%v: %w", vt, ErrNotStruct)
	}
	// The pointer method set is a superset of the value one.
	pt := reflect.PointerTo(t)
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		if m.Name == "TemporalAttributes" {
			continue
		}
		r.activities[prefix+m.Name] = t
	}
	r.version.Add(1)
	return nil
}

// BindActivity binds a single activity type name to t.
func (r *Registry) BindActivity(name string, t reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activities[name] = indirectType(t)
	r.version.Add(1)
}

// BindActivityFunc binds the activity function fn, by its registered name, to t.
func (r *Registry) BindActivityFunc(fn interface{}, t reflect.Type) error {
	name, err := functionName(fn)
	if err != nil {
		return err
	}
	r.BindActivity(name, t)
	return nil
}

// BindWorkflow binds a workflow type name to t.
func (r *Registry) BindWorkflow(name string, t reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workflows[name] = indirectType(t)
	r.version.Add(1)
}

// BindWorkflowFunc binds the workflow function fn, by its registered name, to t.
func (r *Registry) BindWorkflowFunc(fn interface{}, t reflect.Type) error {
	name, err := functionName(fn)
	if err != nil {
		return err
	}
	r.BindWorkflow(name, t)
	return nil
}

// ActivityType returns the annotated type bound to an activity type name.
func (r *Registry) ActivityType(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.activities[name]
	return t, ok
}

// WorkflowType returns the annotated type bound to a workflow type name.
func (r *Registry) WorkflowType(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.workflows[name]
	return t, ok
}

// Version changes on every mutation.
func (r *Registry) Version() uint64 {
	return r.version.Load()
}

func (r *Registry) typeAttributes(t reflect.Type) []Attribute {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.types[t]
}

func (r *Registry) interfacesImplementedBy(t reflect.Type, skip map[reflect.Type]bool) []Attribute {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var attrs []Attribute
	pt := reflect.PointerTo(t)
	for _, i := range r.interfaces {
		if skip[i.t] {
			continue
		}
		if t.Implements(i.t) || pt.Implements(i.t) {
			attrs = append(attrs, i.attrs...)
		}
	}
	return attrs
}

func (r *Registry) nameAttributes(name string) []Attribute {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.named[name]
}

func (r *Registry) defaultAttributes() []Attribute {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaults
}

// functionName mirrors how the SDK names registered functions: the last path element with the method value "-fm"
// suffix removed. Strings are taken as already-resolved names.
func functionName(fn interface{}) (string, error) {
	if name, ok := fn.(string); ok {
		return name, nil
	}
	if fn == nil || reflect.TypeOf(fn).Kind() != reflect.Func {
		return "", fmt.Errorf("expected a function or name, got %T", fn)
	}
	fullName := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name()
	elements := strings.Split(fullName, ".")
	return strings.TrimSuffix(elements[len(elements)-1], "-fm"), nil
}
