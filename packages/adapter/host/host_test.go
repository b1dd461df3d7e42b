package host_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngadapter-go/packages/adapter/core"
	"ngadapter-go/packages/adapter/host"
)

func TestProcess(t *testing.T) {
	t.Run("should return nil for an empty mapping", func(t *testing.T) {
		spec, err := host.Process("MyDir", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if spec != nil {
			t.Errorf("Expected nil spec, got %+v", spec)
		}
	})

	t.Run("should classify host keys", func(t *testing.T) {
		spec, err := host.Process("MyDir", map[string]string{
			"role":                 "button",
			"[class.active]":       "isActive",
			"[attr.aria-expanded]": "expanded",
			"[tabindex]":           "tabIndex",
			"(click)":              "onClick($event,$event.target)",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := &host.Spec{
			Static:     map[string]string{"role": "button"},
			Classes:    map[string]string{"active": "isActive"},
			Attributes: map[string]string{"aria-expanded": "expanded"},
			Properties: map[string]string{"tabindex": "tabIndex"},
			Listeners:  map[string][]string{"click": {"onClick", "$event", "$event.target"}},
		}
		if diff := cmp.Diff(want, spec); diff != "" {
			t.Errorf("host spec mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should allow an empty listener argument list", func(t *testing.T) {
		spec, err := host.Process("MyDir", map[string]string{
			"(focus)": "onFocus()",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"onFocus"}
		if diff := cmp.Diff(want, spec.Listeners["focus"]); diff != "" {
			t.Errorf("listener mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should resolve deep $event paths", func(t *testing.T) {
		spec, err := host.Process("MyDir", map[string]string{
			"(input)": "onInput($event.target.value)",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"onInput", "$event.target.value"}
		if diff := cmp.Diff(want, spec.Listeners["input"]); diff != "" {
			t.Errorf("listener mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should fail on a parameter not rooted at $event", func(t *testing.T) {
		_, err := host.Process("MyDir", map[string]string{
			"(click)": "onClick(foo)",
		})
		assertConfigError(t, err, "MyDir")
	})

	t.Run("should fail on an empty path segment", func(t *testing.T) {
		_, err := host.Process("MyDir", map[string]string{
			"(click)": "onClick($event..target)",
		})
		assertConfigError(t, err, "MyDir")
	})

	t.Run("should fail on a malformed listener value", func(t *testing.T) {
		_, err := host.Process("MyDir", map[string]string{
			"(click)": "not a method call",
		})
		assertConfigError(t, err, "MyDir")
	})
}

func assertConfigError(t *testing.T, err error, typeName string) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected a configuration error")
	}
	var configErr *core.ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("Expected *core.ConfigError, got %T", err)
	}
	if configErr.Type != typeName {
		t.Errorf("Expected error to carry %q, got %q", typeName, configErr.Type)
	}
}
