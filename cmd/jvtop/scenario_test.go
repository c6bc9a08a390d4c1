package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "build-erase-insert.yaml"))
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if s.Name != "build-erase-insert" {
		t.Errorf("Name = %q", s.Name)
	}
	if s.Budget != 8192 {
		t.Errorf("Budget = %d, want 8192", s.Budget)
	}
	if len(s.Steps) != 5 {
		t.Fatalf("Steps = %d, want 5", len(s.Steps))
	}
	if s.Steps[2].Op != "insert" || s.Steps[2].Index != 2 || s.Steps[2].Count != 2 {
		t.Errorf("Steps[2] = %+v", s.Steps[2])
	}
}

func TestLoadScenario_RejectsUnknownOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("steps:\n  - op: explode\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScenario(path); err == nil {
		t.Fatal("LoadScenario accepted an unknown op")
	}
}

func TestRunner_AppliesScenario(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "build-erase-insert.yaml"))
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	r := newRunner(s.Budget)
	defer r.close()

	wantLens := []int{5, 4, 6, 0, 0}
	for i, step := range s.Steps {
		res := r.apply(step)
		if res.Err != nil {
			t.Fatalf("step %d (%s): %v", i+1, formatStep(step), res.Err)
		}
		if res.Len != wantLens[i] {
			t.Errorf("step %d: len = %d, want %d", i+1, res.Len, wantLens[i])
		}
	}
	if got := r.arr.Cap(); got != 0 {
		t.Errorf("Cap() = %d after resize 0 + shrink, want 0", got)
	}
	if st := r.counting.Stats(); st.BytesInUse != 0 {
		t.Errorf("BytesInUse = %d, want 0", st.BytesInUse)
	}
}

func TestRunner_BudgetFailureKeepsArrayUsable(t *testing.T) {
	r := newRunner(64)
	defer r.close()

	res := r.apply(Step{Op: "fill", Count: 4, Value: "7"})
	if res.Err == nil {
		t.Fatal("fill within a 64-byte budget should fail to allocate a buffer")
	}
	if res.Len != 0 {
		t.Errorf("len = %d after failed fill, want 0", res.Len)
	}
	if got := r.limit.Remaining(); got != 64 {
		t.Errorf("Remaining() = %d, want 64", got)
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line    string
		want    Step
		wantErr bool
	}{
		{line: "insert 0 3 hello", want: Step{Op: "insert", Index: 0, Count: 3, Value: "hello"}},
		{line: "fill 10 true", want: Step{Op: "fill", Count: 10, Value: "true"}},
		{line: "erase 2 4", want: Step{Op: "erase", Index: 2, Count: 4}},
		{line: "resize 0", want: Step{Op: "resize"}},
		{line: "shrink", want: Step{Op: "shrink"}},
		{line: "clear", want: Step{Op: "clear"}},
		{line: "", wantErr: true},
		{line: "explode 1", wantErr: true},
		{line: "insert zero 3", wantErr: true},
		{line: "fill", wantErr: true},
	}
	for _, tc := range tests {
		got, err := parseCommand(tc.line)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseCommand(%q) succeeded, want error", tc.line)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseCommand(%q): %v", tc.line, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseCommand(%q) = %+v, want %+v", tc.line, got, tc.want)
		}
	}
}
