package tensor

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Elements is implemented by every shaped tensor.
type Elements interface {
	Data() []float64
	Len() int
}

// Backed is implemented by every shaped tensor and exposes the storage a
// view can borrow from.
type Backed interface {
	Storage() Storage
}

// Tensor is the rank-independent part of Vector, Matrix and Volume: a
// Storage plus a Shape whose element count equals the storage length.
type Tensor struct {
	store Storage
	shape Shape
}

func newTensor(store Storage, shape Shape, op string) Tensor {
	shape.mustValidate(op)
	if store.Len() != shape.NumElements() {
		panic(fmt.Sprintf("%s: shape %v needs %d elements, storage has %d",
			op, shape, shape.NumElements(), store.Len()))
	}
	return Tensor{store: store, shape: shape.Clone()}
}

// viewOf borrows n elements of s starting at offset. Views of views are
// flattened so every View points directly at an owning Buffer.
func viewOf(s Storage, offset, n int) View {
	switch st := s.(type) {
	case *Buffer:
		return NewView(st, offset, n)
	case View:
		if offset < 0 || n < 0 || offset+n > st.Len() {
			panic(fmt.Sprintf("view: window [%d:%d] out of range for view of %d elements",
				offset, offset+n, st.Len()))
		}
		_ = st.Data() // fail fast on a stale parent
		return NewView(st.Source(), st.Offset()+offset, n)
	default:
		panic(fmt.Sprintf("view: unsupported storage %T", s))
	}
}

// Data returns the elements (zero-copy).
func (t *Tensor) Data() []float64 {
	return t.store.Data()
}

// Len returns the element count.
func (t *Tensor) Len() int {
	return t.store.Len()
}

// Shape returns the tensor dimensions.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Storage returns the backing storage.
func (t *Tensor) Storage() Storage {
	return t.store
}

// Owned reports whether the tensor owns its memory.
func (t *Tensor) Owned() bool {
	return t.store.Owned()
}

func (t *Tensor) mustMatch(op string, other Elements) {
	if t.Len() != other.Len() {
		panic(fmt.Sprintf("%s: parameter count mismatch (%d vs %d)", op, t.Len(), other.Len()))
	}
}

// Add adds other elementwise in place.
func (t *Tensor) Add(other Elements) {
	t.mustMatch("add", other)
	floats.Add(t.Data(), other.Data())
}

// Sub subtracts other elementwise in place.
func (t *Tensor) Sub(other Elements) {
	t.mustMatch("sub", other)
	floats.Sub(t.Data(), other.Data())
}

// Mul multiplies by other elementwise in place.
func (t *Tensor) Mul(other Elements) {
	t.mustMatch("mul", other)
	floats.Mul(t.Data(), other.Data())
}

// Div divides by other elementwise in place.
func (t *Tensor) Div(other Elements) {
	t.mustMatch("div", other)
	floats.Div(t.Data(), other.Data())
}

// AddScalar adds value to every element.
func (t *Tensor) AddScalar(value float64) {
	floats.AddConst(value, t.Data())
}

// SubScalar subtracts value from every element.
func (t *Tensor) SubScalar(value float64) {
	floats.AddConst(-value, t.Data())
}

// MulScalar multiplies every element by value.
func (t *Tensor) MulScalar(value float64) {
	floats.Scale(value, t.Data())
}

// DivScalar divides every element by value.
func (t *Tensor) DivScalar(value float64) {
	data := t.Data()
	for i := range data {
		data[i] /= value
	}
}

// Apply replaces every element x with fn(x).
func (t *Tensor) Apply(fn func(float64) float64) {
	data := t.Data()
	for i, x := range data {
		data[i] = fn(x)
	}
}

// Fill sets every element to value.
func (t *Tensor) Fill(value float64) {
	data := t.Data()
	for i := range data {
		data[i] = value
	}
}

// Sum returns the sum of all elements.
func (t *Tensor) Sum() float64 {
	return floats.Sum(t.Data())
}

// assign deep-copies other into t, reallocating when the shape changes.
func (t *Tensor) assign(other *Tensor) {
	buf, ok := t.store.(*Buffer)
	if !ok {
		panic(ErrViewMutation)
	}
	if buf.Len() != other.Len() {
		buf.Resize(other.Len())
	}
	copy(buf.Data(), other.Data())
	t.shape = other.shape.Clone()
}

// swap exchanges memory and shape with other. Both must own their memory.
func (t *Tensor) swap(other *Tensor) {
	a, ok := t.store.(*Buffer)
	if !ok {
		panic(ErrViewMutation)
	}
	b, ok := other.store.(*Buffer)
	if !ok {
		panic(ErrViewMutation)
	}
	a.Swap(b)
	t.shape, other.shape = other.shape, t.shape
}

// Move transfers the owned memory out of t and returns it as a rank-0
// buffer; t is left empty. Panics for views.
func (t *Tensor) Move() *Buffer {
	buf, ok := t.store.(*Buffer)
	if !ok {
		panic(ErrViewMutation)
	}
	t.shape = make(Shape, len(t.shape))
	return buf.Move()
}

// Release frees owned memory. Views never free anything.
func (t *Tensor) Release() {
	if buf, ok := t.store.(*Buffer); ok {
		buf.Release()
	}
}

func (t *Tensor) cloneTensor() Tensor {
	return Tensor{store: CopyBuffer(t.Data()), shape: t.shape.Clone()}
}

// writeRows formats a rows x cols window of data, tab separated.
func writeRows(sb *strings.Builder, data []float64, rows, cols int) {
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			fmt.Fprintf(sb, "%g\t", data[i*cols+j])
		}
		sb.WriteByte('\n')
	}
}
