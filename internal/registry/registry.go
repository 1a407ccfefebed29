// Package registry implements the chain registry (C1): resolution of
// short names and numeric chain ids to immutable network descriptors, and
// closed-set sibling-family classification.
package registry

import (
	"strconv"
	"strings"

	"chaingateway/internal/apperr"
	"chaingateway/internal/model"
)

// Registry resolves network identifiers against a static table built once
// at process startup. Extending it requires a code change, not a runtime
// failure path (spec §4.1).
type Registry struct {
	byName    map[string]model.NetworkDescriptor
	byChainID map[uint64]model.NetworkDescriptor
	ordered   []model.NetworkDescriptor
	siblings  map[string]struct{}
}

// New builds a Registry from the closed descriptor table in networks.go.
func New() *Registry {
	return build(defaultNetworks())
}

func build(descs []model.NetworkDescriptor) *Registry {
	r := &Registry{
		byName:    make(map[string]model.NetworkDescriptor, len(descs)),
		byChainID: make(map[uint64]model.NetworkDescriptor, len(descs)),
		siblings:  make(map[string]struct{}),
	}
	for _, d := range descs {
		key := strings.ToLower(d.ShortName)
		r.byName[key] = d
		r.byChainID[d.ChainID] = d
		r.ordered = append(r.ordered, d)
		if d.IsSiblingFamily {
			r.siblings[key] = struct{}{}
			r.siblings[strconv.FormatUint(d.ChainID, 10)] = struct{}{}
		}
	}
	return r
}

// Resolve looks a network up by short name (case-insensitive) or numeric
// chain id string.
func (r *Registry) Resolve(id string) (model.NetworkDescriptor, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return model.NetworkDescriptor{}, apperr.Validation("resolve network", "network identifier is required")
	}
	key := strings.ToLower(trimmed)
	if d, ok := r.byName[key]; ok {
		return d, nil
	}
	if chainID, err := strconv.ParseUint(trimmed, 10, 64); err == nil {
		if d, ok := r.byChainID[chainID]; ok {
			return d, nil
		}
	}
	return model.NetworkDescriptor{}, apperr.Validation("resolve network", "unknown network: %s", id)
}

// List returns all registered descriptors in registration order.
func (r *Registry) List() []model.NetworkDescriptor {
	out := make([]model.NetworkDescriptor, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// IsSibling reports whether x (name or chain id) matches the closed
// sibling-family set. Total over the set: false for anything not in it.
func (r *Registry) IsSibling(x string) bool {
	trimmed := strings.TrimSpace(x)
	if trimmed == "" {
		return false
	}
	if _, ok := r.siblings[strings.ToLower(trimmed)]; ok {
		return true
	}
	_, ok := r.siblings[trimmed]
	return ok
}

// PrimarySibling returns the sibling network used as the default target
// for unparameterized resource aliases (spec §6.4).
func (r *Registry) PrimarySibling() (model.NetworkDescriptor, bool) {
	for _, d := range r.ordered {
		if d.SiblingVariant == model.SiblingMainnet {
			return d, true
		}
	}
	return model.NetworkDescriptor{}, false
}
