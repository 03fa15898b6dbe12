package llm

// Registry is an immutable provider lookup built once at startup and
// passed by reference, so tests can substitute fakes instead of patching
// global state.
type Registry struct {
	byID  map[string]Provider
	order []string
}

func NewRegistry(providers ...Provider) *Registry {
	byID := make(map[string]Provider, len(providers))
	order := make([]string, 0, len(providers))

	for _, p := range providers {
		if _, dup := byID[p.ID()]; dup {
			continue
		}

		byID[p.ID()] = p
		order = append(order, p.ID())
	}

	return &Registry{byID: byID, order: order}
}

// returns the provider registered under the given id
func (r *Registry) Get(id string) (Provider, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// returns all providers in registration order
func (r *Registry) All() []Provider {
	out := make([]Provider, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}

	return out
}
