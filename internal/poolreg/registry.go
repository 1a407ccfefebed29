// Package poolreg is the static pool registry (spec §4.7): a
// closed (symbol, network) -> pair lookup loaded once from an embedded
// YAML table. A symbol absent from the table is simply not quotable,
// never a runtime error.
package poolreg

import (
	_ "embed"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"chaingateway/internal/model"
)

//go:embed pools.yaml
var poolsYAML []byte

type poolFile struct {
	Pools []model.PoolRegistryEntry `yaml:"pools"`
}

// Registry answers (symbol, network) -> PoolRegistryEntry lookups.
type Registry struct {
	byKey map[string]model.PoolRegistryEntry
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
	defaultErr  error
)

// Default loads the embedded pool table once, memoized with sync.Once the
// same way a parsed contract ABI is cached elsewhere in this codebase.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultReg, defaultErr = Load(poolsYAML)
	})
	return defaultReg, defaultErr
}

// Load parses a pools.yaml document into a Registry.
func Load(raw []byte) (*Registry, error) {
	var file poolFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, err
	}
	r := &Registry{byKey: make(map[string]model.PoolRegistryEntry, len(file.Pools))}
	for _, entry := range file.Pools {
		r.byKey[key(entry.Symbol, entry.Network)] = entry
	}
	return r, nil
}

// Lookup returns the pool entry for (symbol, network), or false if the
// pair is not registered.
func (r *Registry) Lookup(symbol, network string) (model.PoolRegistryEntry, bool) {
	entry, ok := r.byKey[key(symbol, network)]
	return entry, ok
}

// NetworksFor returns every network symbol is registered against.
func (r *Registry) NetworksFor(symbol string) []string {
	want := strings.ToLower(symbol)
	var out []string
	for _, entry := range r.byKey {
		if strings.ToLower(entry.Symbol) == want {
			out = append(out, entry.Network)
		}
	}
	return out
}

// Symbols returns the closed set of symbols the registry knows about.
func (r *Registry) Symbols() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, entry := range r.byKey {
		if _, ok := seen[entry.Symbol]; ok {
			continue
		}
		seen[entry.Symbol] = struct{}{}
		out = append(out, entry.Symbol)
	}
	return out
}

func key(symbol, network string) string {
	return strings.ToLower(symbol) + "@" + strings.ToLower(network)
}
