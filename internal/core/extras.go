package core

import (
	"context"
	"errors"
	"sync"
)

// ErrUnknownExtra is returned by Call for a method that was never registered.
var ErrUnknownExtra = errors.New("unknown extra function")

// ExtraFunc is the call shape of a slave channel's "extra function": a
// plugin-defined entry point invoked from the master channel with a raw
// parameter string.
type ExtraFunc func(ctx context.Context, param string) (string, error)

// ExtraSpec describes an extra function for discovery and help output.
// Desc may contain the literal placeholder "{function_name}"; substituting
// it with the callable name the user sees is the consumer's job, not ours.
type ExtraSpec struct {
	Name string
	Desc string
}

// Extra is one registered entry: the method identifier plus its descriptor
// and implementation.
type Extra struct {
	Method string
	Spec   ExtraSpec
	Fn     ExtraFunc
}

// ExtraRegistry maps method identifiers to extra functions. Channels fill it
// during Init; the master channel lists and calls through it.
//
// Re-registering a method replaces its entry (last registration wins) while
// keeping its original position in List.
type ExtraRegistry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]Extra
}

func NewExtraRegistry() *ExtraRegistry {
	return &ExtraRegistry{entries: make(map[string]Extra)}
}

// Register publishes fn under method. Neither spec nor method is validated;
// identifiers are developer-supplied.
func (r *ExtraRegistry) Register(method string, spec ExtraSpec, fn ExtraFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[method]; !ok {
		r.order = append(r.order, method)
	}
	r.entries[method] = Extra{Method: method, Spec: spec, Fn: fn}
}

// Lookup returns the entry registered under method.
func (r *ExtraRegistry) Lookup(method string) (Extra, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[method]
	return e, ok
}

// List returns all entries in registration order.
func (r *ExtraRegistry) List() []Extra {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Extra, 0, len(r.order))
	for _, m := range r.order {
		out = append(out, r.entries[m])
	}
	return out
}

// Call invokes the function registered under method.
func (r *ExtraRegistry) Call(ctx context.Context, method, param string) (string, error) {
	e, ok := r.Lookup(method)
	if !ok {
		return "", ErrUnknownExtra
	}
	return e.Fn(ctx, param)
}
