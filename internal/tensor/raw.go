package tensor

import (
	"fmt"
)

// ErrViewMutation is the panic message raised when an ownership operation
// targets a tensor that borrows its memory.
const ErrViewMutation = "illegal mutation of a non-owning view"

// Storage is the flat element memory behind a shaped tensor.
//
// Two implementations exist:
//   - *Buffer owns its memory and is the only type with ownership
//     operations (Resize, Swap, Move, Release).
//   - View borrows a window of a Buffer and never allocates.
type Storage interface {
	// Data returns the elements as a slice aliasing the storage.
	Data() []float64
	// Len returns the number of elements.
	Len() int
	// Owned reports whether releasing this storage frees memory.
	Owned() bool
}

// Buffer is an owning block of float64 elements.
//
// Every ownership change (Release, Move, Swap, Resize) bumps the buffer
// generation so views taken earlier fail fast instead of reading memory the
// buffer no longer guards.
type Buffer struct {
	data []float64
	gen  uint64
}

// NewBuffer allocates n elements set to value.
func NewBuffer(n int, value float64) *Buffer {
	if n < 0 {
		panic(fmt.Sprintf("buffer: negative length %d", n))
	}
	data := make([]float64, n)
	if value != 0 {
		for i := range data {
			data[i] = value
		}
	}
	return &Buffer{data: data}
}

// CopyBuffer allocates a buffer holding a copy of src.
func CopyBuffer(src []float64) *Buffer {
	data := make([]float64, len(src))
	copy(data, src)
	return &Buffer{data: data}
}

// WrapBuffer takes ownership of data without copying.
// The caller must not keep using data through another path.
func WrapBuffer(data []float64) *Buffer {
	return &Buffer{data: data}
}

// Data returns the owned elements.
func (b *Buffer) Data() []float64 {
	return b.data
}

// Len returns the element count.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Owned always reports true.
func (b *Buffer) Owned() bool {
	return true
}

// Clone deep-copies the buffer.
func (b *Buffer) Clone() *Buffer {
	return CopyBuffer(b.data)
}

// Resize reallocates the buffer to n zeroed elements.
func (b *Buffer) Resize(n int) {
	if n < 0 {
		panic(fmt.Sprintf("buffer: negative length %d", n))
	}
	b.data = make([]float64, n)
	b.gen++
}

// Swap exchanges the memory of two buffers.
func (b *Buffer) Swap(other *Buffer) {
	b.data, other.data = other.data, b.data
	b.gen++
	other.gen++
}

// Move transfers the memory into a new buffer and leaves b empty.
func (b *Buffer) Move() *Buffer {
	moved := &Buffer{data: b.data}
	b.data = nil
	b.gen++
	return moved
}

// Release frees the memory. Releasing twice is safe.
func (b *Buffer) Release() {
	if b.data == nil {
		return
	}
	b.data = nil
	b.gen++
}

// View borrows length elements of a buffer starting at offset.
//
// A View has no ownership operations. It records the generation of its
// source and panics on access once the source has been released, moved,
// swapped or resized.
type View struct {
	src    *Buffer
	gen    uint64
	offset int
	length int
}

// NewView creates a view over src[offset : offset+length].
func NewView(src *Buffer, offset, length int) View {
	if src == nil {
		panic("view: nil source buffer")
	}
	if offset < 0 || length < 0 || offset+length > len(src.data) {
		panic(fmt.Sprintf("view: window [%d:%d] out of range for buffer of %d elements",
			offset, offset+length, len(src.data)))
	}
	return View{src: src, gen: src.gen, offset: offset, length: length}
}

// Data returns the borrowed window. The slice capacity is clipped so
// appends can never spill into the neighbouring elements of the source.
func (v View) Data() []float64 {
	if v.src.gen != v.gen {
		panic("view: source buffer released or reallocated while still borrowed")
	}
	return v.src.data[v.offset : v.offset+v.length : v.offset+v.length]
}

// Len returns the window length.
func (v View) Len() int {
	return v.length
}

// Owned always reports false.
func (v View) Owned() bool {
	return false
}

// Offset returns the window start inside the source buffer.
func (v View) Offset() int {
	return v.offset
}

// Source returns the borrowed buffer.
func (v View) Source() *Buffer {
	return v.src
}
