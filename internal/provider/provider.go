package provider

import (
	"context"
	"fmt"

	"socialhub/internal/model"
)

// Publisher publishes content to one social platform. imageAssets are
// platform-specific references already uploaded/registered for the
// account (tweet media ids, LinkedIn asset URNs).
type Publisher interface {
	Name() model.Provider
	Publish(ctx context.Context, content string, account *model.SocialAccount, imageAssets []string) error
}

// Registry maps provider names to their publisher so the delivery
// worker never branches on provider identity.
type Registry struct {
	publishers map[model.Provider]Publisher
}

// NewRegistry builds a registry from the given publishers.
func NewRegistry(publishers ...Publisher) *Registry {
	r := &Registry{publishers: make(map[model.Provider]Publisher, len(publishers))}
	for _, p := range publishers {
		r.publishers[p.Name()] = p
	}
	return r
}

// Get returns the publisher for a provider name.
func (r *Registry) Get(name model.Provider) (Publisher, error) {
	p, ok := r.publishers[name]
	if !ok {
		return nil, fmt.Errorf("no publisher registered for provider %q", name)
	}
	return p, nil
}

// Names lists the registered provider names.
func (r *Registry) Names() []model.Provider {
	names := make([]model.Provider, 0, len(r.publishers))
	for name := range r.publishers {
		names = append(names, name)
	}
	return names
}
