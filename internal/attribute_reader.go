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
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/singleflight"
)

type (
	// Reader collects the attributes of Go types and caches the result per type. A Reader is safe for concurrent
	// use.
	//
	// Attributes are returned nearest first:
	//  1. attributes registered for the type itself, its Meta struct tags, and its AttributeProvider method
	//  2. the same for embedded struct fields, depth first in declaration order
	//  3. attributes of registered interfaces the type (or a pointer to it) implements, in registration order
	//  4. attributes bound to the type name (configuration files)
	//  5. registry-wide defaults
	Reader struct {
		registry *Registry
		cache    sync.Map // reflect.Type -> *readResult
		group    singleflight.Group
	}

	readResult struct {
		version uint64
		attrs   []Attribute
		err     error
	}
)

var defaultReader = NewReader(NewRegistry())

// DefaultReader returns the package-wide reader used when no reader is given.
func DefaultReader() *Reader {
	return defaultReader
}

// NewReader creates a reader over registry. A nil registry is replaced by an empty one.
func NewReader(registry *Registry) *Reader {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Reader{registry: registry}
}

// Registry returns the registry the reader consults.
func (r *Reader) Registry() *Registry {
	return r.registry
}

// Reset drops all cached results.
func (r *Reader) Reset() {
	r.cache.Range(func(key, _ interface{}) bool {
		r.cache.Delete(key)
		return true
	})
}

// All returns every attribute of t, nearest first. A type without metadata yields an empty result.
func (r *Reader) All(t reflect.Type) ([]Attribute, error) {
	t = indirectType(t)
	if t == nil {
		return []Attribute{}, nil
	}
	version := r.registry.Version()
	if v, ok := r.cache.Load(t); ok {
		if res := v.(*readResult); res.version == version {
			return cloneAttributes(res.attrs), res.err
		}
	}
	// Function-local types can share a name, so the key is the type's identity. The version keeps callers from
	// joining a read that started before a registry change.
	v, _, _ := r.group.Do(fmt.Sprintf("%p/%d", t, version), func() (interface{}, error) {
		res := &readResult{version: version}
		res.attrs, res.err = r.collect(t)
		r.cache.Store(t, res)
		return res, nil
	})
	res := v.(*readResult)
	return cloneAttributes(res.attrs), res.err
}

// Describe resolves the attributes of t into a Description.
func (r *Reader) Describe(t reflect.Type) (Description, error) {
	attrs, err := r.All(t)
	if err != nil {
		return Description{}, err
	}
	return DescribeAttributes(typeName(t), attrs)
}

func (r *Reader) collect(t reflect.Type) ([]Attribute, error) {
	var (
		attrs []Attribute
		errs  error
		seen  = map[reflect.Type]bool{}
	)
	r.collectDeclared(t, seen, &attrs, &errs)
	if t.Kind() != reflect.Interface {
		provided, err := callProvider(t)
		errs = multierr.Append(errs, err)
		attrs = insertProvided(attrs, provided, len(r.registry.typeAttributes(t))+countTagAttributes(t))
	}
	attrs = append(attrs, r.registry.interfacesImplementedBy(t, seen)...)
	attrs = append(attrs, r.registry.nameAttributes(typeName(t))...)
	attrs = append(attrs, r.registry.defaultAttributes()...)
	if errs != nil {
		return nil, errs
	}
	return attrs, nil
}

// collectDeclared walks t and its embedded fields. Provider methods are only consulted for the outermost type:
// Go method promotion already exposes an embedded provider through it.
func (r *Reader) collectDeclared(t reflect.Type, seen map[reflect.Type]bool, attrs *[]Attribute, errs *error) {
	if seen[t] {
		return
	}
	seen[t] = true
	*attrs = append(*attrs, r.registry.typeAttributes(t)...)
	if t.Kind() != reflect.Struct {
		return
	}
	var embedded []reflect.Type
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if isMeta(f.Type) {
			tagged, err := attributesFromTag(t, f.Tag)
			if err != nil {
				*errs = multierr.Append(*errs, err)
				continue
			}
			*attrs = append(*attrs, tagged...)
			continue
		}
		if f.Anonymous {
			if ft := indirectType(f.Type); ft.Kind() == reflect.Struct || ft.Kind() == reflect.Interface {
				embedded = append(embedded, ft)
			}
		}
	}
	for _, ft := range embedded {
		r.collectDeclared(ft, seen, attrs, errs)
	}
}

func countTagAttributes(t reflect.Type) int {
	if t.Kind() != reflect.Struct {
		return 0
	}
	n := 0
	for i := 0; i < t.NumField(); i++ {
		if f := t.Field(i); isMeta(f.Type) {
			// Errors were already reported by collectDeclared.
			if tagged, err := attributesFromTag(t, f.Tag); err == nil {
				n += len(tagged)
			}
		}
	}
	return n
}

// insertProvided places provider attributes right after the type's own registry and tag attributes so they rank
// above anything inherited.
func insertProvided(attrs, provided []Attribute, at int) []Attribute {
	if len(provided) == 0 {
		return attrs
	}
	if at > len(attrs) {
		at = len(attrs)
	}
	ret := make([]Attribute, 0, len(attrs)+len(provided))
	ret = append(ret, attrs[:at]...)
	ret = append(ret, provided...)
	return append(ret, attrs[at:]...)
}

func callProvider(t reflect.Type) (attrs []Attribute, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%v.TemporalAttributes panicked: %v", typeName(t), p)
		}
	}()
	p, ok := reflect.New(t).Interface().(AttributeProvider)
	if !ok {
		return nil, nil
	}
	return normalizeAttributes(p.TemporalAttributes()), nil
}

func cloneAttributes(attrs []Attribute) []Attribute {
	if attrs == nil {
		return []Attribute{}
	}
	return append(make([]Attribute, 0, len(attrs)), attrs...)
}

// First returns the nearest attribute of type A declared for t.
func First[A Attribute](r *Reader, t reflect.Type) (A, bool, error) {
	var zero A
	attrs, err := readerOrDefault(r).All(t)
	if err != nil {
		return zero, false, err
	}
	for _, a := range attrs {
		if v, ok := a.(A); ok {
			return v, true, nil
		}
	}
	return zero, false, nil
}

// AllOf returns every attribute of type A declared for t, nearest first.
func AllOf[A Attribute](r *Reader, t reflect.Type) ([]A, error) {
	attrs, err := readerOrDefault(r).All(t)
	if err != nil {
		return nil, err
	}
	var ret []A
	for _, a := range attrs {
		if v, ok := a.(A); ok {
			ret = append(ret, v)
		}
	}
	return ret, nil
}

func readerOrDefault(r *Reader) *Reader {
	if r == nil {
		return defaultReader
	}
	return r
}
