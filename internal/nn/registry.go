package nn

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// LayerFactory returns an empty layer ready for UnmarshalText.
type LayerFactory func() Layer

// LayerResolver returns a layer for name, or nil if it does not know it.
type LayerResolver func(name string) Layer

// ActivationResolver returns an activation for name, or the zero
// Activation if it does not know it.
type ActivationResolver func(name string) Activation

// Registry maps layer and activation names to constructors.
//
// Lookup order is: built-ins, then names registered with RegisterLayer /
// RegisterActivation in registration order, then resolvers in the order
// they were added. The first hit wins.
type Registry struct {
	layers              *orderedmap.OrderedMap[string, LayerFactory]
	activations         *orderedmap.OrderedMap[string, Activation]
	layerResolvers      []LayerResolver
	activationResolvers []ActivationResolver
}

// NewRegistry returns a registry holding the built-in layers and
// activations.
func NewRegistry() *Registry {
	r := &Registry{
		layers:      orderedmap.New[string, LayerFactory](),
		activations: orderedmap.New[string, Activation](),
	}
	r.layers.Set(DenseName, func() Layer { return &Dense{} })
	r.layers.Set(ConvolutionalName, func() Layer { return &Convolutional{} })
	r.layers.Set(ConvolutionalTreeName, func() Layer { return &ConvolutionalTree{} })
	r.layers.Set(PoolingName, func() Layer { return &Pooling{} })

	for _, act := range []Activation{Sigmoid(), ReLU(), ReLU10(), ReLU100(), ReLU500()} {
		r.activations.Set(act.Name(), act)
	}
	return r
}

// RegisterLayer adds a named factory. Names already registered, including
// the built-ins, cannot be replaced.
func (r *Registry) RegisterLayer(name string, factory LayerFactory) error {
	if name == "" || factory == nil {
		return fmt.Errorf("register layer: name and factory are required")
	}
	if _, ok := r.layers.Get(name); ok {
		return fmt.Errorf("register layer: %q is already registered", name)
	}
	r.layers.Set(name, factory)
	return nil
}

// RegisterActivation adds an activation under its own name.
func (r *Registry) RegisterActivation(act Activation) error {
	if act.IsZero() {
		return fmt.Errorf("register activation: zero activation")
	}
	if _, ok := r.activations.Get(act.Name()); ok {
		return fmt.Errorf("register activation: %q is already registered", act.Name())
	}
	r.activations.Set(act.Name(), act)
	return nil
}

// AddLayerResolver appends a fallback consulted for unregistered names.
func (r *Registry) AddLayerResolver(fn LayerResolver) {
	r.layerResolvers = append(r.layerResolvers, fn)
}

// AddActivationResolver appends a fallback consulted for unregistered names.
func (r *Registry) AddActivationResolver(fn ActivationResolver) {
	r.activationResolvers = append(r.activationResolvers, fn)
}

// NewLayer constructs an empty layer for name.
func (r *Registry) NewLayer(name string) (Layer, error) {
	if factory, ok := r.layers.Get(name); ok {
		return factory(), nil
	}
	for _, resolve := range r.layerResolvers {
		if l := resolve(name); l != nil {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLayer, name)
}

// Activation returns the activation registered for name.
func (r *Registry) Activation(name string) (Activation, error) {
	if act, ok := r.activations.Get(name); ok {
		return act, nil
	}
	for _, resolve := range r.activationResolvers {
		if act := resolve(name); !act.IsZero() {
			return act, nil
		}
	}
	return Activation{}, fmt.Errorf("%w: %q", ErrUnknownActivation, name)
}

// LayerNames returns the registered layer names in lookup order.
func (r *Registry) LayerNames() []string {
	names := make([]string, 0, r.layers.Len())
	for pair := r.layers.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// ActivationNames returns the registered activation names in lookup order.
func (r *Registry) ActivationNames() []string {
	names := make([]string, 0, r.activations.Len())
	for pair := r.activations.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}
