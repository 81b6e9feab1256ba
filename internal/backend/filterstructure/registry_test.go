package filterstructure

import (
	"testing"
)

func TestNewFilterRegistry(t *testing.T) {
	registry := NewFilterRegistry()
	if registry == nil {
		t.Fatal("Expected non-nil registry")
	}
	if registry.filters == nil {
		t.Fatal("Expected non-nil filters map")
	}
}

func TestFilterRegistry_Register(t *testing.T) {
	registry := NewFilterRegistry()

	if err := registry.Register(identityFilter("test")); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := registry.Register(identityFilter("test")); err == nil {
		t.Error("Expected error for duplicate registration")
	}
	if err := registry.Register(identityFilter("")); err == nil {
		t.Error("Expected error for empty name")
	}
	if err := registry.Register(nil); err == nil {
		t.Error("Expected error for nil filter")
	}
	if err := registry.Register(&Filter{Name: "noop"}); err == nil {
		t.Error("Expected error for filter without implementation")
	}
}

func TestFilterRegistry_MustRegisterPanicsOnDuplicate(t *testing.T) {
	registry := NewFilterRegistry()
	registry.MustRegister(identityFilter("dup"))

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for duplicate registration")
		}
	}()
	registry.MustRegister(identityFilter("dup"))
}

func TestFilterRegistry_Lookup(t *testing.T) {
	registry := NewFilterRegistry()
	registry.MustRegister(identityFilter("speed", ArgNumber))

	filter, ok := registry.Lookup("speed")
	if !ok {
		t.Fatal("Expected speed to be registered")
	}
	if filter.Signature() != "speed number" {
		t.Errorf("Expected signature 'speed number', got '%s'", filter.Signature())
	}
	if _, ok := registry.Lookup("unknown"); ok {
		t.Error("Expected unknown filter lookup to fail")
	}
	if !registry.IsRegistered("speed") || registry.IsRegistered("unknown") {
		t.Error("IsRegistered disagrees with Lookup")
	}
}

func TestFilterRegistry_GetRegisteredNamesSorted(t *testing.T) {
	registry := NewFilterRegistry()
	if names := registry.GetRegisteredNames(); len(names) != 0 {
		t.Errorf("Expected 0 registered names, got %d", len(names))
	}

	registry.MustRegister(identityFilter("mirror"))
	registry.MustRegister(identityFilter("distort"))
	registry.MustRegister(identityFilter("go"))

	names := registry.GetRegisteredNames()
	expected := []string{"distort", "go", "mirror"}
	if len(names) != len(expected) {
		t.Fatalf("Expected %d names, got %d", len(expected), len(names))
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("names[%d] = %s, want %s", i, names[i], expected[i])
		}
	}
}
