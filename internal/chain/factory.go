package chain

import (
	"context"
	"sync"

	"chaingateway/internal/apperr"
	"chaingateway/internal/model"
)

// Factory lazily creates and caches one Client per network. First-use
// concurrent callers race on a sync.Once per entry, never producing a
// duplicate connection (spec §5 "single-winner initialization").
type Factory struct {
	resolve func(network string) (model.NetworkDescriptor, error)
	rpcURL  func(model.NetworkDescriptor) string
	opts    func(model.NetworkDescriptor) Options

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	once   sync.Once
	client *Client
	err    error
}

// NewFactory builds a Factory. resolve typically wraps registry.Resolve;
// rpcURL and opts let the caller apply per-network env overrides (spec
// §6.5 "<SIBLING>_NODE_URL") without the factory knowing about config.
func NewFactory(
	resolve func(network string) (model.NetworkDescriptor, error),
	rpcURL func(model.NetworkDescriptor) string,
	opts func(model.NetworkDescriptor) Options,
) *Factory {
	return &Factory{
		resolve: resolve,
		rpcURL:  rpcURL,
		opts:    opts,
		entries: make(map[string]*entry),
	}
}

// Get returns the cached client for network, dialing it on first use.
func (f *Factory) Get(ctx context.Context, network string) (*Client, error) {
	desc, err := f.resolve(network)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	e, ok := f.entries[desc.ShortName]
	if !ok {
		e = &entry{}
		f.entries[desc.ShortName] = e
	}
	f.mu.Unlock()

	e.once.Do(func() {
		url := desc.DefaultRPCURL
		if f.rpcURL != nil {
			if override := f.rpcURL(desc); override != "" {
				url = override
			}
		}
		var options Options
		if f.opts != nil {
			options = f.opts(desc)
		}
		e.client, e.err = New(ctx, desc.ShortName, url, options)
	})

	if e.err != nil {
		return nil, apperr.Upstream("dial rpc client", e.err)
	}
	return e.client, nil
}

// Close closes every dialed client.
func (f *Factory) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.client != nil {
			e.client.Close()
		}
	}
}
