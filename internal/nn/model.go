package nn

import (
	"github.com/born-ml/dragon/internal/tensor"
)

// Releaser is implemented by layers that can free their parameters.
type Releaser interface {
	Release()
}

type entry struct {
	layer Layer
	owned bool // built by the model during Load
}

// Model is an ordered chain of layers.
//
// Layers passed to AddLayer stay owned by the caller. Layers built by Load
// are owned by the model and freed by Release.
type Model struct {
	layers   []entry
	registry *Registry
}

// NewModel creates an empty model with the built-in registry.
func NewModel() *Model {
	return &Model{registry: NewRegistry()}
}

// Registry returns the registry Load resolves names against.
func (m *Model) Registry() *Registry {
	return m.registry
}

// AddLayer appends a caller-owned layer.
func (m *Model) AddLayer(l Layer) {
	m.layers = append(m.layers, entry{layer: l})
}

// AddLayerResolver registers a fallback layer constructor for Load.
func (m *Model) AddLayerResolver(fn LayerResolver) {
	m.registry.AddLayerResolver(fn)
}

// AddActivationResolver registers a fallback activation constructor for Load.
func (m *Model) AddActivationResolver(fn ActivationResolver) {
	m.registry.AddActivationResolver(fn)
}

// Len returns the number of layers.
func (m *Model) Len() int {
	return len(m.layers)
}

// Layer returns layer i.
func (m *Model) Layer(i int) Layer {
	return m.layers[i].layer
}

// Owned reports whether layer i was built by the model.
func (m *Model) Owned(i int) bool {
	return m.layers[i].owned
}

// Layers returns the layers in order.
func (m *Model) Layers() []Layer {
	out := make([]Layer, len(m.layers))
	for i, e := range m.layers {
		out[i] = e.layer
	}
	return out
}

// Release frees the model-owned layers and empties the model. Caller-owned
// layers are left intact.
func (m *Model) Release() {
	for _, e := range m.layers {
		if r, ok := e.layer.(Releaser); ok && e.owned {
			r.Release()
		}
	}
	m.layers = nil
}

// FeedForward threads input through every layer in order.
func FeedForward(m *Model, input *tensor.Vector) *tensor.Vector {
	working := input
	for _, e := range m.layers {
		working = e.layer.FeedForward(working)
	}
	if working == input {
		return input.Clone()
	}
	return working
}

// TrainModel runs one gradient-descent step on a single example:
//  1. PreparePropagate layer by layer, each output feeding the next layer.
//  2. cost(finalOutput, target) gives the output gradient.
//  3. BackPropagate in reverse order, each returned input gradient becoming
//     the previous layer's costAfter.
//
// Returns the gradient with respect to input. Panics on an empty model.
func TrainModel(m *Model, input, target *tensor.Vector, cost CostFunc, learningRate float64) *tensor.Vector {
	if len(m.layers) == 0 {
		panic("train: model has no layers")
	}

	prepared := make([]*PreparedData, len(m.layers))
	working := input
	for i, e := range m.layers {
		prepared[i] = e.layer.PreparePropagate(working)
		working = prepared[i].Output
	}

	local := cost(working, target)
	for i := len(m.layers) - 1; i >= 0; i-- {
		local = m.layers[i].layer.BackPropagate(prepared[i].Sum, local, prepared[i].Input, learningRate)
	}
	return local
}
