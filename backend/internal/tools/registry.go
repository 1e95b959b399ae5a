package tools

import (
	"buffr-host/backend/internal/adapter"
	apperrors "buffr-host/backend/pkg/errors"
)

// ToolDescriptor describes one named capability the agent can dispatch.
// Descriptors are defined once at registry construction and never mutated;
// Name is the identity within a registry.
type ToolDescriptor struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Provider       string   `json:"provider"`
	Scopes         []string `json:"scopes"`
	HospitalityUse string   `json:"hospitalityUse"`
	RequiresAuth   bool     `json:"requiresAuth"`

	// Parameters is the JSON-schema argument shape offered to the model.
	// It rides along with the descriptor but is not part of the catalog
	// representation returned over HTTP.
	Parameters map[string]interface{} `json:"-"`
}

// Registry is the static tool catalog. It is safe for concurrent reads.
type Registry struct {
	descriptors []ToolDescriptor
	byName      map[string]int
}

// NewRegistry builds the catalog of all dispatchable tools.
func NewRegistry() *Registry {
	descriptors := AllDescriptors()
	byName := make(map[string]int, len(descriptors))
	for i, d := range descriptors {
		byName[d.Name] = i
	}
	return &Registry{
		descriptors: descriptors,
		byName:      byName,
	}
}

// List returns every descriptor in catalog order. The slice is a copy;
// callers cannot mutate the registry through it.
func (r *Registry) List() []ToolDescriptor {
	out := make([]ToolDescriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// Find returns the descriptor for name.
func (r *Registry) Find(name string) (*ToolDescriptor, error) {
	i, ok := r.byName[name]
	if !ok {
		return nil, apperrors.NewUnknownTool(name)
	}
	d := r.descriptors[i]
	return &d, nil
}

// Definitions converts the catalog into the function-call schema offered
// to the language model.
func (r *Registry) Definitions() []adapter.Tool {
	defs := make([]adapter.Tool, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		defs = append(defs, adapter.Tool{
			Type: "function",
			Function: adapter.FunctionDefinition{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  d.Parameters,
			},
		})
	}
	return defs
}
