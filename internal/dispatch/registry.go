package dispatch

import (
	"errors"
	"fmt"

	"github.com/diamondburned/arikawa/v3/api"
)

// Registry is the ordered, read-only command table.
type Registry struct {
	defs []Definition
}

// NewRegistry builds a registry from defs in order. Every name and alias
// must be non-empty and unique across the whole table.
func NewRegistry(defs ...Definition) (*Registry, error) {
	owners := make(map[string]string, len(defs))

	for _, def := range defs {
		if def.Name == "" {
			return nil, errors.New("command definition has no name")
		}
		if def.Slash == nil || def.Prefix == nil {
			return nil, fmt.Errorf("command %q is missing an executor", def.Name)
		}

		for _, key := range append([]string{def.Name}, def.Aliases...) {
			if owner, ok := owners[key]; ok {
				return nil, fmt.Errorf("%w: %q is claimed by %q and %q", ErrDuplicateCommand, key, owner, def.Name)
			}
			owners[key] = def.Name
		}
	}

	return &Registry{defs: append([]Definition(nil), defs...)}, nil
}

// Lookup finds a prefix command by name or alias.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	for i := range r.defs {
		if r.defs[i].Matches(name) {
			return &r.defs[i], true
		}
	}

	return nil, false
}

// LookupSlash finds a slash command by its exact name. Aliases are prefix only.
func (r *Registry) LookupSlash(name string) (*Definition, bool) {
	for i := range r.defs {
		if r.defs[i].Name == name {
			return &r.defs[i], true
		}
	}

	return nil, false
}

// Definitions returns the commands in registration order.
func (r *Registry) Definitions() []Definition {
	return append([]Definition(nil), r.defs...)
}

// Schemas exports the slash command schemas in registration order.
func (r *Registry) Schemas() []api.CreateCommandData {
	schemas := make([]api.CreateCommandData, 0, len(r.defs))
	for _, def := range r.defs {
		schemas = append(schemas, def.Schema())
	}

	return schemas
}

// Len returns the number of registered commands.
func (r *Registry) Len() int { return len(r.defs) }
