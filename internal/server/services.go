// Package server wires the core components (registry, chain factory,
// token reader, gas engine, historian, arbitrage engine, pool registry,
// defi placeholder provider) into the closed tool/resource set the
// dispatcher exposes (spec §4.8/§6.3/§6.4). analyticsSource adapts the
// chain factory for the analytics package, but no tool or resource
// calls analytics.
package server

import (
	"context"

	"chaingateway/internal/analytics"
	"chaingateway/internal/arbitrage"
	"chaingateway/internal/chain"
	"chaingateway/internal/defi"
	"chaingateway/internal/model"
	"chaingateway/internal/poolreg"
	"chaingateway/internal/registry"
)

// Services bundles every core component the tool handlers depend on.
type Services struct {
	Registry *registry.Registry
	Chains   *chain.Factory
	Pools    *poolreg.Registry
	Defi     *defi.Provider
}

// resolveNetwork defaults to the primary sibling when network is empty,
// the resource-alias rule spec §6.4 describes.
func (s *Services) resolveNetwork(network string) (model.NetworkDescriptor, error) {
	if network == "" {
		if primary, ok := s.Registry.PrimarySibling(); ok {
			return primary, nil
		}
	}
	return s.Registry.Resolve(network)
}

func (s *Services) clientFor(ctx context.Context, network string) (*chain.Client, model.NetworkDescriptor, error) {
	desc, err := s.resolveNetwork(network)
	if err != nil {
		return nil, model.NetworkDescriptor{}, err
	}
	client, err := s.Chains.Get(ctx, desc.ShortName)
	if err != nil {
		return nil, model.NetworkDescriptor{}, err
	}
	return client, desc, nil
}

// analyticsSource adapts Services into analytics.NetworkSource.
func (s *Services) analyticsSource(ctx context.Context, network string) (analytics.Reader, model.NativeToken, error) {
	client, desc, err := s.clientFor(ctx, network)
	if err != nil {
		return nil, model.NativeToken{}, err
	}
	return client, desc.NativeToken, nil
}

// arbitrageSource adapts Services into arbitrage.Source.
func (s *Services) arbitrageSource(ctx context.Context, network string) (arbitrage.Reader, error) {
	client, _, err := s.clientFor(ctx, network)
	if err != nil {
		return nil, err
	}
	return client, nil
}
