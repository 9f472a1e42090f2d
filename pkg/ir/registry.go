package ir

import "fmt"

// Registry maps canonical reference paths to their SchemaNode. It is append-only
// while the resolver builds it and read-only once sealed.
type Registry struct {
	order  []string
	nodes  map[string]*SchemaNode
	sealed bool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{nodes: map[string]*SchemaNode{}}
}

// Register adds node under ref. A ref can be registered only once.
func (r *Registry) Register(ref string, node *SchemaNode) error {
	if r.sealed {
		return fmt.Errorf("registry is sealed; cannot register %q", ref)
	}
	if _, ok := r.nodes[ref]; ok {
		return fmt.Errorf("%q is already registered", ref)
	}
	r.nodes[ref] = node
	r.order = append(r.order, ref)
	return nil
}

// Lookup returns the node registered under ref.
func (r *Registry) Lookup(ref string) (*SchemaNode, bool) {
	n, ok := r.nodes[ref]
	return n, ok
}

// Refs returns the registered refs in registration order.
func (r *Registry) Refs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Nodes returns the registered nodes in registration order.
func (r *Registry) Nodes() []*SchemaNode {
	out := make([]*SchemaNode, 0, len(r.order))
	for _, ref := range r.order {
		out = append(out, r.nodes[ref])
	}
	return out
}

// Len returns the number of registered nodes.
func (r *Registry) Len() int { return len(r.order) }

// Seal makes the registry read-only.
func (r *Registry) Seal() { r.sealed = true }

// Sealed reports whether Seal was called.
func (r *Registry) Sealed() bool { return r.sealed }
