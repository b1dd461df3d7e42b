// Package runtimetest provides deterministic in-memory implementations of
// the host runtime contract for tests: a reactive context with an explicit
// deferred-task queue, a scope-map expression evaluator and an observable
// attribute handle.
package runtimetest

import (
	"reflect"
	"strings"
)

// Context implements runtime.ReactiveContext. Deferred tasks queue up until
// Flush; watches re-evaluate on Digest. Expressions are dotted paths into
// the Scope map.
type Context struct {
	Scope   map[string]any
	tasks   []func()
	watches []*watch
}

type watch struct {
	get      func() any
	listener func(newVal, oldVal any)
	last     any
	started  bool
	removed  bool
}

func NewContext() *Context {
	return &Context{Scope: map[string]any{}}
}

func (c *Context) EvalAsync(fn func()) {
	c.tasks = append(c.tasks, fn)
}

func (c *Context) ApplyAsync(fn func()) {
	c.tasks = append(c.tasks, fn)
}

// Flush runs one logical cycle: every task queued before the call. Tasks
// scheduled while flushing stay queued for the next cycle.
func (c *Context) Flush() {
	pending := c.tasks
	c.tasks = nil
	for _, task := range pending {
		task()
	}
}

// Pending reports how many deferred tasks are queued.
func (c *Context) Pending() int {
	return len(c.tasks)
}

func (c *Context) Watch(get func() any, listener func(newVal, oldVal any)) func() {
	w := &watch{get: get, listener: listener}
	c.watches = append(c.watches, w)
	return func() { w.removed = true }
}

func (c *Context) WatchExpression(expr string, listener func(newVal, oldVal any)) func() {
	return c.Watch(func() any { return c.Eval(expr, nil) }, listener)
}

// Digest re-evaluates every active watch, firing listeners whose value
// changed. The first evaluation always fires, mirroring the host runtime's
// initial watch pass.
func (c *Context) Digest() {
	for _, w := range c.watches {
		if w.removed {
			continue
		}
		value := w.get()
		if !w.started || !reflect.DeepEqual(value, w.last) {
			old := w.last
			w.started = true
			w.last = value
			w.listener(value, old)
		}
	}
}

// ActiveWatches counts the watches that have not been removed.
func (c *Context) ActiveWatches() int {
	n := 0
	for _, w := range c.watches {
		if !w.removed {
			n++
		}
	}
	return n
}

func (c *Context) Eval(expr string, locals map[string]any) any {
	segments := strings.Split(expr, ".")
	var value any
	if locals != nil {
		if v, ok := locals[segments[0]]; ok {
			value = v
		} else {
			value = c.Scope[segments[0]]
		}
	} else {
		value = c.Scope[segments[0]]
	}
	for _, segment := range segments[1:] {
		m, ok := value.(map[string]any)
		if !ok {
			return nil
		}
		value = m[segment]
	}
	return value
}

func (c *Context) Assign(expr string, value any) {
	segments := strings.Split(expr, ".")
	target := c.Scope
	for _, segment := range segments[:len(segments)-1] {
		next, ok := target[segment].(map[string]any)
		if !ok {
			next = map[string]any{}
			target[segment] = next
		}
		target = next
	}
	target[segments[len(segments)-1]] = value
}

// Attrs implements runtime.AttributeHandle over a plain map.
type Attrs struct {
	Values    map[string]string
	observers map[string][]*observer
}

type observer struct {
	fn      func(string)
	removed bool
}

func NewAttrs(values map[string]string) *Attrs {
	if values == nil {
		values = map[string]string{}
	}
	return &Attrs{Values: values}
}

func (a *Attrs) Get(name string) (string, bool) {
	value, ok := a.Values[name]
	return value, ok
}

func (a *Attrs) Observe(name string, fn func(value string)) func() {
	if a.observers == nil {
		a.observers = map[string][]*observer{}
	}
	o := &observer{fn: fn}
	a.observers[name] = append(a.observers[name], o)
	if value, ok := a.Values[name]; ok {
		fn(value)
	}
	return func() { o.removed = true }
}

// Set updates an attribute and notifies its observers.
func (a *Attrs) Set(name, value string) {
	if a.Values == nil {
		a.Values = map[string]string{}
	}
	a.Values[name] = value
	for _, o := range a.observers[name] {
		if !o.removed {
			o.fn(value)
		}
	}
}

// Event implements runtime.Event over a nested field map.
type Event struct {
	Fields    map[string]any
	Prevented bool
}

func (e *Event) Path(path string) any {
	var value any = e.Fields
	for _, segment := range strings.Split(path, ".") {
		m, ok := value.(map[string]any)
		if !ok {
			return nil
		}
		value = m[segment]
	}
	return value
}

func (e *Event) PreventDefault() {
	e.Prevented = true
}
