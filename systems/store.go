package systems

import "fmt"

// Particle field offsets within a store slot.
const (
	FieldX = iota
	FieldY
	FieldVX
	FieldVY
	FieldAge
	FieldReserved // always zero
	FieldTTL
	FieldTurbulence
	FieldR
	FieldG
	FieldB

	NumFields
)

// ParticleStore is a fixed-capacity pool of particles laid out as one flat buffer
// of count × fields float32 values. Slots are recycled in place; nothing is ever
// appended or removed. Not safe for concurrent use.
type ParticleStore struct {
	count   int
	fields  int
	data    []float32
	scratch []float32
}

// NewParticleStore allocates a zeroed store.
func NewParticleStore(count, fields int) *ParticleStore {
	if count < 0 || fields <= 0 {
		panic(fmt.Sprintf("systems: invalid store shape %dx%d", count, fields))
	}
	return &ParticleStore{
		count:   count,
		fields:  fields,
		data:    make([]float32, count*fields),
		scratch: make([]float32, fields),
	}
}

// Len returns the number of slots.
func (s *ParticleStore) Len() int { return s.count }

// Fields returns the number of values per slot.
func (s *ParticleStore) Fields() int { return s.fields }

// slot returns the backing region for index. Out-of-range indices panic.
func (s *ParticleStore) slot(index int) []float32 {
	if index < 0 || index >= s.count {
		panic(fmt.Sprintf("systems: particle index %d out of range [0,%d)", index, s.count))
	}
	off := index * s.fields
	return s.data[off : off+s.fields : off+s.fields]
}

// Set overwrites the slot at index. values may be shorter than Fields;
// remaining values are left untouched.
func (s *ParticleStore) Set(index int, values []float32) {
	if len(values) > s.fields {
		panic(fmt.Sprintf("systems: %d values for %d fields", len(values), s.fields))
	}
	copy(s.slot(index), values)
}

// Get copies the slot at index into dst, growing it if needed, and returns it.
func (s *ParticleStore) Get(index int, dst []float32) []float32 {
	if cap(dst) < s.fields {
		dst = make([]float32, s.fields)
	}
	dst = dst[:s.fields]
	copy(dst, s.slot(index))
	return dst
}

// ForEach calls fn with a copy of every slot in ascending index order.
// The copy is reused between calls; fn must not retain it.
func (s *ParticleStore) ForEach(fn func(values []float32, index int)) {
	for i := 0; i < s.count; i++ {
		s.scratch = s.Get(i, s.scratch)
		fn(s.scratch, i)
	}
}

// Map replaces every slot with the result of fn.
func (s *ParticleStore) Map(fn func(index int) []float32) {
	for i := 0; i < s.count; i++ {
		s.Set(i, fn(i))
	}
}
