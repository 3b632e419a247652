package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryBuiltins(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{DenseName, ConvolutionalName, ConvolutionalTreeName, PoolingName}, r.LayerNames())
	assert.Equal(t, []string{"sigmoid", "relU", "relU10", "relU100", "relU500"}, r.ActivationNames())

	for _, name := range r.LayerNames() {
		l, err := r.NewLayer(name)
		require.NoError(t, err)
		assert.Equal(t, name, l.Name())
	}
}

func TestRegistryRegistration(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterLayer("Wide", func() Layer { return &Dense{} }))
	assert.Error(t, r.RegisterLayer("Wide", func() Layer { return &Dense{} }))
	assert.Error(t, r.RegisterLayer(DenseName, func() Layer { return &Dense{} }))
	assert.Error(t, r.RegisterLayer("", nil))
	assert.Equal(t, "Wide", r.LayerNames()[4])

	require.NoError(t, r.RegisterActivation(identity()))
	assert.Error(t, r.RegisterActivation(identity()))
	assert.Error(t, r.RegisterActivation(Activation{}))

	act, err := r.Activation("identity")
	require.NoError(t, err)
	assert.Equal(t, 3.0, act.Forward(3))
}

func TestRegistryLookupOrder(t *testing.T) {
	r := NewRegistry()
	var consulted []string
	r.AddActivationResolver(func(name string) Activation {
		consulted = append(consulted, "first:"+name)
		return Activation{}
	})
	r.AddActivationResolver(func(name string) Activation {
		consulted = append(consulted, "second:"+name)
		if name == "linear" {
			return identity()
		}
		return Activation{}
	})

	_, err := r.Activation("sigmoid")
	require.NoError(t, err)
	assert.Empty(t, consulted, "built-ins win before resolvers")

	act, err := r.Activation("linear")
	require.NoError(t, err)
	assert.Equal(t, "identity", act.Name())
	assert.Equal(t, []string{"first:linear", "second:linear"}, consulted)

	_, err = r.Activation("swish")
	assert.ErrorIs(t, err, ErrUnknownActivation)
	_, err = r.NewLayer("Recurrent")
	assert.ErrorIs(t, err, ErrUnknownLayer)
}
