package link_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ngadapter-go/packages/adapter/bindings"
	"ngadapter-go/packages/adapter/core"
	"ngadapter-go/packages/adapter/dom"
	"ngadapter-go/packages/adapter/host"
	"ngadapter-go/packages/adapter/link"
	"ngadapter-go/packages/adapter/query"
	"ngadapter-go/packages/adapter/runtime"
	"ngadapter-go/packages/adapter/runtime/runtimetest"
)

// linkCtrl implements the full controller surface plus every lifecycle hook,
// recording everything; the hook flags on the spec decide what actually runs.
type linkCtrl struct {
	runtime.ControllerBase
	log        []string
	invokeArgs []any
	result     any
	onHook     func(name string)
}

func (c *linkCtrl) record(name string) {
	c.log = append(c.log, name)
	if c.onHook != nil {
		c.onHook(name)
	}
}

func (c *linkCtrl) OnInit()              { c.record("OnInit") }
func (c *linkCtrl) OnDestroy()           { c.record("OnDestroy") }
func (c *linkCtrl) AfterViewInit()       { c.record("AfterViewInit") }
func (c *linkCtrl) AfterViewChecked()    { c.record("AfterViewChecked") }
func (c *linkCtrl) AfterContentInit()    { c.record("AfterContentInit") }
func (c *linkCtrl) AfterContentChecked() { c.record("AfterContentChecked") }

func (c *linkCtrl) Invoke(method string, args ...any) any {
	c.record("Invoke:" + method)
	c.invokeArgs = args
	return c.result
}

func runtimeLinkFns(called *bool) *runtime.LinkFns {
	return &runtime.LinkFns{
		Post: func(runtime.ReactiveContext, runtime.ElementHandle, runtime.AttributeHandle, []runtime.Controller, runtime.TranscludeFn) {
			*called = true
		},
	}
}

func build(t *testing.T, spec *link.Spec) runtime.LinkFns {
	t.Helper()
	fns, err := link.Build(spec)
	require.NoError(t, err)
	return fns
}

func element(t *testing.T, fragment string) *dom.Element {
	t.Helper()
	el, err := dom.Parse(fragment)
	require.NoError(t, err)
	return el
}

func TestRequiredControllerWiring(t *testing.T) {
	t.Run("pre-attach assigns required controllers before the init hook", func(t *testing.T) {
		ctrl := &linkCtrl{}
		parent := &linkCtrl{}
		ctrl.onHook = func(name string) {
			if name == "OnInit" && ctrl.Property("parentCtrl") != parent {
				t.Error("required controller not assigned before OnInit")
			}
		}

		fns := build(t, &link.Spec{
			Name:  "MyDir",
			Hooks: core.HookFlags{OnInit: true},
			Slots: []core.RequireSlot{{Name: "parentCtrl", Index: 1}},
		})
		rc := runtimetest.NewContext()
		el := element(t, `<div></div>`)
		fns.Pre(rc, el, runtimetest.NewAttrs(nil), []runtime.Controller{ctrl, parent}, nil)

		require.Equal(t, []string{"OnInit"}, ctrl.log)
		require.Same(t, parent, ctrl.Property("parentCtrl"))
	})

	t.Run("post-attach assigns required controllers when no init hook", func(t *testing.T) {
		ctrl := &linkCtrl{}
		parent := &linkCtrl{}

		fns := build(t, &link.Spec{
			Name:  "MyDir",
			Slots: []core.RequireSlot{{Name: "parentCtrl", Index: 1}},
		})
		rc := runtimetest.NewContext()
		el := element(t, `<div></div>`)
		fns.Post(rc, el, runtimetest.NewAttrs(nil), []runtime.Controller{ctrl, parent}, nil)

		require.Same(t, parent, ctrl.Property("parentCtrl"))
	})

	t.Run("a missing tuple entry assigns nil", func(t *testing.T) {
		ctrl := &linkCtrl{}
		fns := build(t, &link.Spec{
			Name:  "MyDir",
			Slots: []core.RequireSlot{{Name: "parentCtrl", Index: 1}},
		})
		rc := runtimetest.NewContext()
		el := element(t, `<div></div>`)
		fns.Post(rc, el, runtimetest.NewAttrs(nil), []runtime.Controller{ctrl}, nil)

		require.Nil(t, ctrl.Property("parentCtrl"))
	})
}

func TestDirectiveBindings(t *testing.T) {
	newSpec := func(t *testing.T, inputs, attrs, outputs []string) *link.Spec {
		t.Helper()
		m, err := bindings.Synthesize("MyDir", inputs, attrs, outputs)
		require.NoError(t, err)
		return &link.Spec{Name: "MyDir", Bindings: m}
	}

	t.Run("two-way bindings sync both directions", func(t *testing.T) {
		ctrl := &linkCtrl{}
		rc := runtimetest.NewContext()
		rc.Scope["user"] = map[string]any{"name": "ada"}
		el := element(t, `<div></div>`)
		attrs := runtimetest.NewAttrs(map[string]string{"model": "user.name"})

		fns := build(t, newSpec(t, []string{"model"}, nil, nil))
		fns.Post(rc, el, attrs, []runtime.Controller{ctrl}, nil)

		rc.Digest()
		require.Equal(t, "ada", ctrl.Property("model"))

		ctrl.SetProperty("model", "grace")
		rc.Digest()
		require.Equal(t, "grace", rc.Eval("user.name", nil))
	})

	t.Run("attribute-text bindings observe the attribute", func(t *testing.T) {
		ctrl := &linkCtrl{}
		rc := runtimetest.NewContext()
		el := element(t, `<div></div>`)
		attrs := runtimetest.NewAttrs(map[string]string{"title": "hello"})

		fns := build(t, newSpec(t, nil, []string{"label: title"}, nil))
		fns.Post(rc, el, attrs, []runtime.Controller{ctrl}, nil)

		require.Equal(t, "hello", ctrl.Property("label"))
		attrs.Set("title", "goodbye")
		require.Equal(t, "goodbye", ctrl.Property("label"))
	})

	t.Run("callback bindings evaluate with locals", func(t *testing.T) {
		ctrl := &linkCtrl{}
		rc := runtimetest.NewContext()
		el := element(t, `<div></div>`)
		attrs := runtimetest.NewAttrs(map[string]string{"on-change": "handler"})
		rc.Scope["handler"] = "parent-result"

		fns := build(t, newSpec(t, nil, nil, []string{"changed: on-change"}))
		fns.Post(rc, el, attrs, []runtime.Controller{ctrl}, nil)

		callback, ok := ctrl.Property("changed").(func(map[string]any) any)
		require.True(t, ok)
		require.Equal(t, "parent-result", callback(nil))
	})

	t.Run("absent attributes are skipped", func(t *testing.T) {
		ctrl := &linkCtrl{}
		rc := runtimetest.NewContext()
		el := element(t, `<div></div>`)

		fns := build(t, newSpec(t, []string{"model"}, nil, nil))
		fns.Post(rc, el, runtimetest.NewAttrs(nil), []runtime.Controller{ctrl}, nil)

		require.Equal(t, 0, rc.ActiveWatches())
	})
}

func TestHostWiring(t *testing.T) {
	hostSpec := func(t *testing.T, mapping map[string]string) *host.Spec {
		t.Helper()
		spec, err := host.Process("MyDir", mapping)
		require.NoError(t, err)
		return spec
	}

	t.Run("static attributes apply at attach time", func(t *testing.T) {
		ctrl := &linkCtrl{}
		rc := runtimetest.NewContext()
		el := element(t, `<div></div>`)

		fns := build(t, &link.Spec{
			Name: "MyDir",
			Host: hostSpec(t, map[string]string{"role": "button"}),
		})
		fns.Post(rc, el, runtimetest.NewAttrs(nil), []runtime.Controller{ctrl}, nil)

		role, ok := el.Attribute("role")
		require.True(t, ok)
		require.Equal(t, "button", role)
	})

	t.Run("class bindings toggle on truthiness", func(t *testing.T) {
		ctrl := &linkCtrl{}
		rc := runtimetest.NewContext()
		el := element(t, `<div></div>`)

		fns := build(t, &link.Spec{
			Name: "MyDir",
			Host: hostSpec(t, map[string]string{"[class.active]": "isActive"}),
		})
		fns.Post(rc, el, runtimetest.NewAttrs(nil), []runtime.Controller{ctrl}, nil)

		ctrl.SetProperty("isActive", true)
		rc.Digest()
		require.True(t, el.HasClass("active"))

		ctrl.SetProperty("isActive", false)
		rc.Digest()
		require.False(t, el.HasClass("active"))
	})

	t.Run("attribute bindings format values and remove on nil", func(t *testing.T) {
		ctrl := &linkCtrl{}
		rc := runtimetest.NewContext()
		el := element(t, `<div></div>`)

		fns := build(t, &link.Spec{
			Name: "MyDir",
			Host: hostSpec(t, map[string]string{"[attr.aria-level]": "level"}),
		})
		fns.Post(rc, el, runtimetest.NewAttrs(nil), []runtime.Controller{ctrl}, nil)

		ctrl.SetProperty("level", 2)
		rc.Digest()
		level, ok := el.Attribute("aria-level")
		require.True(t, ok)
		require.Equal(t, "2", level)

		ctrl.SetProperty("level", nil)
		rc.Digest()
		_, ok = el.Attribute("aria-level")
		require.False(t, ok)
	})

	t.Run("property bindings assign the raw value", func(t *testing.T) {
		ctrl := &linkCtrl{}
		rc := runtimetest.NewContext()
		el := element(t, `<div></div>`)

		fns := build(t, &link.Spec{
			Name: "MyDir",
			Host: hostSpec(t, map[string]string{"[scrollTop]": "offset"}),
		})
		fns.Post(rc, el, runtimetest.NewAttrs(nil), []runtime.Controller{ctrl}, nil)

		ctrl.SetProperty("offset", 42)
		rc.Digest()
		require.Equal(t, 42, el.PropertyValue("scrollTop"))
	})

	t.Run("listeners dispatch inside an async-applied block", func(t *testing.T) {
		ctrl := &linkCtrl{result: true}
		rc := runtimetest.NewContext()
		el := element(t, `<button></button>`)

		fns := build(t, &link.Spec{
			Name: "MyDir",
			Host: hostSpec(t, map[string]string{"(click)": "onClick($event,$event.target.value)"}),
		})
		fns.Post(rc, el, runtimetest.NewAttrs(nil), []runtime.Controller{ctrl}, nil)

		ev := &runtimetest.Event{Fields: map[string]any{
			"target": map[string]any{"value": "typed"},
		}}
		el.Dispatch("click", ev)
		require.Empty(t, ctrl.log, "handler deferred until the applied block runs")

		rc.Flush()
		require.Equal(t, []string{"Invoke:onClick"}, ctrl.log)
		require.Len(t, ctrl.invokeArgs, 2)
		require.Same(t, ev, ctrl.invokeArgs[0])
		require.Equal(t, "typed", ctrl.invokeArgs[1])
		require.False(t, ev.Prevented, "truthy result allows the default action")
	})

	t.Run("a falsy listener result suppresses the default action", func(t *testing.T) {
		ctrl := &linkCtrl{result: nil}
		rc := runtimetest.NewContext()
		el := element(t, `<button></button>`)

		fns := build(t, &link.Spec{
			Name: "MyDir",
			Host: hostSpec(t, map[string]string{"(click)": "onClick()"}),
		})
		fns.Post(rc, el, runtimetest.NewAttrs(nil), []runtime.Controller{ctrl}, nil)

		ev := &runtimetest.Event{}
		el.Dispatch("click", ev)
		rc.Flush()
		require.True(t, ev.Prevented)
	})
}

func TestLifecycleHooks(t *testing.T) {
	t.Run("without queries the flagged hooks run synchronously", func(t *testing.T) {
		ctrl := &linkCtrl{}
		rc := runtimetest.NewContext()
		el := element(t, `<my-cmp></my-cmp>`)

		fns := build(t, &link.Spec{
			Name:        "MyCmp",
			IsComponent: true,
			Transclude:  true,
			Hooks:       core.HookFlags{AfterContentInit: true, AfterViewInit: true},
		})
		fns.Post(rc, el, runtimetest.NewAttrs(nil), []runtime.Controller{ctrl}, nil)

		require.Equal(t, []string{"AfterContentInit", "AfterViewInit"}, ctrl.log)
	})

	t.Run("with queries the hooks defer behind resolver batches", func(t *testing.T) {
		ctrl := &linkCtrl{}
		rc := runtimetest.NewContext()
		el := element(t, `<my-cmp>
			<span class="child"></span>
			<ng-transclude><p class="projected"></p></ng-transclude>
		</my-cmp>`)

		ctrl.onHook = func(name string) {
			switch name {
			case "AfterViewInit":
				if ctrl.Property("child") == nil {
					t.Error("view hook observed an unresolved view query")
				}
			case "AfterContentInit":
				if ctrl.Property("projected") == nil {
					t.Error("content hook observed an unresolved content query")
				}
			}
		}

		fns := build(t, &link.Spec{
			Name:        "MyCmp",
			IsComponent: true,
			Transclude:  true,
			Queries: []core.QuerySpec{
				{Kind: core.QueryViewChild, Selector: ".child", TargetProperty: "child"},
				{Kind: core.QueryContentChild, Selector: ".projected", TargetProperty: "projected"},
			},
			Hooks: core.HookFlags{
				AfterViewInit: true, AfterViewChecked: true,
				AfterContentInit: true, AfterContentChecked: true,
			},
		})
		fns.Post(rc, el, runtimetest.NewAttrs(nil), []runtime.Controller{ctrl}, nil)

		require.Empty(t, ctrl.log, "hooks wait for the deferred batches")
		rc.Flush()
		require.Equal(t, []string{
			"AfterContentInit", "AfterContentChecked",
			"AfterViewInit", "AfterViewChecked",
		}, ctrl.log)
	})

	t.Run("a plain directive only schedules content batches", func(t *testing.T) {
		ctrl := &linkCtrl{}
		rc := runtimetest.NewContext()
		el := element(t, `<div><ng-transclude><p class="projected"></p></ng-transclude></div>`)

		fns := build(t, &link.Spec{
			Name: "MyDir",
			Queries: []core.QuerySpec{
				{Kind: core.QueryContentChild, Selector: ".projected", TargetProperty: "projected"},
			},
			Hooks: core.HookFlags{AfterContentInit: true},
		})
		fns.Post(rc, el, runtimetest.NewAttrs(nil), []runtime.Controller{ctrl}, nil)

		require.Equal(t, 1, rc.Pending(), "exactly one deferred batch")
		rc.Flush()
		require.Equal(t, []string{"AfterContentInit"}, ctrl.log)
	})
}

func TestDestroyOrdering(t *testing.T) {
	t.Run("hook first, then every release exactly once", func(t *testing.T) {
		rc := runtimetest.NewContext()
		el := element(t, `<button></button>`)
		ctrl := &linkCtrl{}
		ctrl.onHook = func(name string) {
			if name != "OnDestroy" {
				return
			}
			if rc.ActiveWatches() != 2 {
				t.Errorf("destroy hook saw %d live watches, want 2", rc.ActiveWatches())
			}
			if el.ListenerCount("click") != 1 {
				t.Error("destroy hook saw the listener already removed")
			}
		}

		spec, err := host.Process("MyDir", map[string]string{
			"[class.a]": "a",
			"[attr.b]":  "b",
			"(click)":   "onClick()",
		})
		require.NoError(t, err)

		fns := build(t, &link.Spec{
			Name:  "MyDir",
			Host:  spec,
			Hooks: core.HookFlags{OnDestroy: true},
		})
		fns.Post(rc, el, runtimetest.NewAttrs(nil), []runtime.Controller{ctrl}, nil)

		require.Equal(t, 2, rc.ActiveWatches())
		el.Detach()

		require.Equal(t, []string{"OnDestroy"}, ctrl.log)
		require.Equal(t, 0, rc.ActiveWatches(), "all watches released")
		require.Equal(t, 0, el.ListenerCount("click"), "listener released")
	})
}

func TestAncestorNotification(t *testing.T) {
	t.Run("attaching notifies required ancestors with schedulers", func(t *testing.T) {
		rc := runtimetest.NewContext()
		parent := &linkCtrl{}

		resolved := 0
		scheduler := query.NewScheduler(rc)
		scheduler.Register(core.FromContent,
			[]query.Resolver{func() { resolved++ }}, nil, nil)
		parent.SetProperty(runtime.SchedulerProperty, scheduler)

		ctrl := &linkCtrl{}
		fns := build(t, &link.Spec{
			Name:  "MyDir",
			Slots: []core.RequireSlot{{Name: "parentCtrl", Index: 1}},
		})
		el := element(t, `<div></div>`)
		fns.Post(rc, el, runtimetest.NewAttrs(nil), []runtime.Controller{ctrl, parent}, nil)

		rc.Flush()
		require.Equal(t, 1, resolved, "ancestor re-resolved its queries")
	})
}
