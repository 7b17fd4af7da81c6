package systems

import "testing"

func TestParticleStoreRoundtrip(t *testing.T) {
	s := NewParticleStore(4, NumFields)

	want := []float32{1.5, -2.25, 0.125, 3, 7, 0, 300, 12.5, 180, 182, 190}
	s.Set(2, want)

	got := s.Get(2, nil)
	if len(got) != NumFields {
		t.Fatalf("expected %d fields, got %d", NumFields, len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("field %d: expected %v, got %v", i, want[i], got[i])
		}
	}

	// Neighbouring slots stay untouched
	for _, idx := range []int{1, 3} {
		for i, v := range s.Get(idx, nil) {
			if v != 0 {
				t.Errorf("slot %d field %d: expected 0, got %v", idx, i, v)
			}
		}
	}
}

func TestParticleStoreGetReturnsCopy(t *testing.T) {
	s := NewParticleStore(1, 3)
	s.Set(0, []float32{1, 2, 3})

	got := s.Get(0, nil)
	got[0] = 99

	if s.Get(0, nil)[0] != 1 {
		t.Error("mutating a Get result changed the store")
	}
}

func TestParticleStoreForEachOrder(t *testing.T) {
	s := NewParticleStore(5, 2)
	s.Map(func(i int) []float32 { return []float32{float32(i), float32(i * 10)} })

	next := 0
	s.ForEach(func(values []float32, index int) {
		if index != next {
			t.Errorf("expected index %d, got %d", next, index)
		}
		if values[0] != float32(index) || values[1] != float32(index*10) {
			t.Errorf("slot %d: unexpected values %v", index, values)
		}
		next++
	})
	if next != 5 {
		t.Errorf("expected 5 visits, got %d", next)
	}
}

func TestParticleStoreForEachDoesNotAllocate(t *testing.T) {
	s := NewParticleStore(64, NumFields)
	sum := float32(0)
	allocs := testing.AllocsPerRun(10, func() {
		s.ForEach(func(values []float32, _ int) {
			sum += values[0]
		})
	})
	if allocs > 0 {
		t.Errorf("expected no allocations during ForEach, got %v", allocs)
	}
}

func TestParticleStoreOutOfRangePanics(t *testing.T) {
	s := NewParticleStore(3, 2)

	for _, idx := range []int{-1, 3, 100} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic for index %d", idx)
				}
			}()
			s.Get(idx, nil)
		}()
	}
}
