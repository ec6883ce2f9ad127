// Package fifo provides a fixed-capacity byte ring used to stage data
// between interrupt handlers and foreground code. The backing storage is
// supplied by the caller, so the capacity is fixed at the declaration site
// and no allocation happens after construction.
package fifo

// Ring is a circular byte queue over caller-provided storage.
//
// One writer and one reader may use a Ring concurrently only if every access
// is serialized externally (the peripheral drivers do this inside their
// critical sections). The Ring itself performs no locking.
type Ring struct {
	buf   []byte
	read  int
	write int
}

// NewRing wraps the given storage. One slot is kept unused to distinguish
// full from empty, so the usable capacity is len(storage)-1.
func NewRing(storage []byte) *Ring {
	if len(storage) < 2 {
		panic("fifo: ring storage must hold at least 2 bytes")
	}
	return &Ring{buf: storage}
}

// Push appends one byte. It returns false if the ring is full; the byte is
// dropped and the ring contents are unchanged.
func (r *Ring) Push(b byte) bool {
	next := (r.write + 1) % len(r.buf)
	if next == r.read {
		return false
	}
	r.buf[r.write] = b
	r.write = next
	return true
}

// Pop removes and returns the oldest byte.
func (r *Ring) Pop() (byte, bool) {
	if r.read == r.write {
		return 0, false
	}
	b := r.buf[r.read]
	r.read = (r.read + 1) % len(r.buf)
	return b, true
}

// Write appends bytes until the ring is full, returning how many were taken.
func (r *Ring) Write(data []byte) int {
	written := 0
	for _, b := range data {
		if !r.Push(b) {
			break
		}
		written++
	}
	return written
}

// Read copies up to len(data) bytes out of the ring, returning how many
// bytes were read.
func (r *Ring) Read(data []byte) int {
	read := 0
	for i := range data {
		b, ok := r.Pop()
		if !ok {
			break
		}
		data[i] = b
		read++
	}
	return read
}

// Len returns the number of buffered bytes.
func (r *Ring) Len() int {
	if r.write >= r.read {
		return r.write - r.read
	}
	return len(r.buf) - r.read + r.write
}

// Cap returns the usable capacity.
func (r *Ring) Cap() int {
	return len(r.buf) - 1
}

// Free returns the number of bytes that can be pushed before the ring fills.
func (r *Ring) Free() int {
	return r.Cap() - r.Len()
}

// Empty reports whether the ring holds no data.
func (r *Ring) Empty() bool {
	return r.read == r.write
}

// Reset discards all buffered data.
func (r *Ring) Reset() {
	r.read = 0
	r.write = 0
}
