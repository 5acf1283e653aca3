package gateway

import (
	"fmt"

	"payhub/pkg/utils"
)

// Registry resolves a Handler by provider name. Gateways are added by
// registering an implementation at bootstrap, not by switching on names at
// call sites.
type Registry struct {
	handlers map[string]Handler
}

func NewRegistry(handlers ...Handler) *Registry {
	r := &Registry{handlers: make(map[string]Handler)}
	for _, h := range handlers {
		r.Register(h)
	}
	return r
}

func (r *Registry) Register(h Handler) {
	r.handlers[h.Name()] = h
}

func (r *Registry) Get(name string) (Handler, error) {
	h, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", utils.ErrUnknownProvider, name)
	}
	return h, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}
