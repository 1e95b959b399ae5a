package tools

import (
	"testing"
)

func TestRegistry_CatalogComplete(t *testing.T) {
	registry := NewRegistry()
	descriptors := registry.List()

	if len(descriptors) != 17 {
		t.Fatalf("catalog has %d tools, want 17", len(descriptors))
	}

	seen := map[string]bool{}
	for _, d := range descriptors {
		if d.Name == "" {
			t.Fatal("descriptor with empty name")
		}
		if seen[d.Name] {
			t.Errorf("duplicate tool name %q", d.Name)
		}
		seen[d.Name] = true

		if d.Description == "" {
			t.Errorf("tool %s has no description", d.Name)
		}
		if d.Provider == "" {
			t.Errorf("tool %s has no provider", d.Name)
		}
		if d.HospitalityUse == "" {
			t.Errorf("tool %s has no hospitality use", d.Name)
		}
		if d.Parameters == nil {
			t.Errorf("tool %s has no parameter schema", d.Name)
		}
	}
}

func TestRegistry_AuthRequiringToolsCarryScopes(t *testing.T) {
	registry := NewRegistry()
	for _, d := range registry.List() {
		if d.RequiresAuth && len(d.Scopes) == 0 {
			t.Errorf("tool %s requires auth but lists no scopes", d.Name)
		}
	}
}

func TestRegistry_Find(t *testing.T) {
	registry := NewRegistry()

	d, err := registry.Find(ToolGenerateInvoice)
	if err != nil {
		t.Fatalf("Find(%s) failed: %v", ToolGenerateInvoice, err)
	}
	if d.Name != ToolGenerateInvoice {
		t.Errorf("Find returned descriptor for %q", d.Name)
	}
	if !d.RequiresAuth {
		t.Error("generate_invoice should require auth")
	}

	if _, err := registry.Find("summon_unicorn"); err == nil {
		t.Error("Find must fail for an unregistered tool")
	}
}

func TestRegistry_ListIsACopy(t *testing.T) {
	registry := NewRegistry()

	listed := registry.List()
	listed[0].Name = "mutated"

	if registry.List()[0].Name == "mutated" {
		t.Error("List must return a copy of the catalog")
	}
}

func TestRegistry_Definitions(t *testing.T) {
	registry := NewRegistry()

	defs := registry.Definitions()
	if len(defs) != len(registry.List()) {
		t.Fatalf("Definitions returned %d entries, want %d", len(defs), len(registry.List()))
	}
	for _, def := range defs {
		if def.Type != "function" {
			t.Errorf("definition %s has type %q", def.Function.Name, def.Type)
		}
		if def.Function.Name == "" {
			t.Error("definition with empty function name")
		}
		if def.Function.Parameters == nil {
			t.Errorf("definition %s has no parameters", def.Function.Name)
		}
	}
}
