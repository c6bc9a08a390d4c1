package dom

import "testing"

func makeRun(res *testResource, n int) []Value {
	vals := make([]Value, n)
	for i := range vals {
		vals[i] = Int64Value(int64(i), res)
	}
	return vals
}

func TestRelocate_ShiftRight(t *testing.T) {
	res := newTestResource(t)
	s := makeRun(res, 8)

	// Open a gap of 2 at index 1: move [1,6) to [3,8).
	relocate(&s[3], &s[1], 5)

	want := []int64{1, 2, 3, 4, 5}
	for i, w := range want {
		if got := s[3+i].Int64(); got != w {
			t.Errorf("s[%d] = %d, want %d", 3+i, got, w)
		}
	}
}

func TestRelocate_ShiftLeft(t *testing.T) {
	res := newTestResource(t)
	s := makeRun(res, 8)

	// Close a gap of 2 at index 1: move [3,8) to [1,6).
	relocate(&s[1], &s[3], 5)

	want := []int64{3, 4, 5, 6, 7}
	for i, w := range want {
		if got := s[1+i].Int64(); got != w {
			t.Errorf("s[%d] = %d, want %d", 1+i, got, w)
		}
	}
}

func TestRelocate_NoopCases(t *testing.T) {
	res := newTestResource(t)
	s := makeRun(res, 4)

	relocate(&s[0], &s[0], 4) // same location
	relocate(&s[1], &s[0], 0) // zero count

	for i := range s {
		if got := s[i].Int64(); got != int64(i) {
			t.Errorf("s[%d] = %d, want %d", i, got, i)
		}
	}
}

func TestRelocateByElement_OverlapBothDirections(t *testing.T) {
	res := newTestResource(t)

	t.Run("right", func(t *testing.T) {
		s := makeRun(res, 8)
		relocateByElement(&s[2], &s[0], 6)
		for i := 0; i < 6; i++ {
			if got := s[2+i].Int64(); got != int64(i) {
				t.Errorf("s[%d] = %d, want %d", 2+i, got, i)
			}
		}
		// Vacated source slots are dropped.
		for i := 0; i < 2; i++ {
			if !s[i].IsNull() {
				t.Errorf("s[%d] not dropped after relocation", i)
			}
		}
	})

	t.Run("left", func(t *testing.T) {
		s := makeRun(res, 8)
		relocateByElement(&s[0], &s[2], 6)
		for i := 0; i < 6; i++ {
			if got := s[i].Int64(); got != int64(2+i) {
				t.Errorf("s[%d] = %d, want %d", i, got, 2+i)
			}
		}
		for i := 6; i < 8; i++ {
			if !s[i].IsNull() {
				t.Errorf("s[%d] not dropped after relocation", i)
			}
		}
	})

	t.Run("disjoint", func(t *testing.T) {
		src := makeRun(res, 4)
		dst := make([]Value, 4)
		relocateByElement(&dst[0], &src[0], 4)
		for i := range dst {
			if got := dst[i].Int64(); got != int64(i) {
				t.Errorf("dst[%d] = %d, want %d", i, got, i)
			}
			if !src[i].IsNull() {
				t.Errorf("src[%d] not dropped", i)
			}
		}
	})
}

func TestRelocate_StringPayloadsSurvive(t *testing.T) {
	res := newTestResource(t)
	s := make([]Value, 6)
	for i, str := range []string{"a", "bb", "ccc"} {
		v, err := StringValue(str, res)
		if err != nil {
			t.Fatalf("StringValue: %v", err)
		}
		s[i] = v
	}

	relocate(&s[2], &s[0], 3)

	for i, want := range []string{"a", "bb", "ccc"} {
		if got := s[2+i].String(); got != want {
			t.Errorf("s[%d] = %q, want %q", 2+i, got, want)
		}
	}
	for i := 2; i < 5; i++ {
		s[i].Release()
	}
	if res.live() != 0 {
		t.Errorf("live blocks = %d after releasing relocated values, want 0", res.live())
	}
}
