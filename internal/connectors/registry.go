package connectors

// Registry is an immutable lookup of connector implementations by type.
// It is built once at startup and passed to whoever needs it, so tests
// can substitute fakes.
type Registry struct {
	byType map[string]Connector
	types  []string
}

func NewRegistry(conns ...Connector) *Registry {
	byType := make(map[string]Connector, len(conns))
	types := make([]string, 0, len(conns))

	for _, conn := range conns {
		if _, dup := byType[conn.Type()]; dup {
			continue
		}

		byType[conn.Type()] = conn
		types = append(types, conn.Type())
	}

	return &Registry{byType: byType, types: types}
}

// returns the connector registered for the given type
func (r *Registry) Get(connectorType string) (Connector, bool) {
	conn, ok := r.byType[connectorType]
	return conn, ok
}

// returns all registered connector types in registration order
func (r *Registry) Types() []string {
	out := make([]string, len(r.types))
	copy(out, r.types)

	return out
}
