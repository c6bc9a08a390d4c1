package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jsonval/jsonval/dom"
	"github.com/jsonval/jsonval/mem"
)

// Scenario is a declarative sequence of array operations.
type Scenario struct {
	Name   string `yaml:"name"`
	Budget int    `yaml:"budget"` // byte budget, 0 = unlimited
	Steps  []Step `yaml:"steps"`
}

// Step is one operation against the array. Index and Count are interpreted
// per op; Value is a scalar literal ("null", "true", "42", "3.14", or any
// other text as a string payload).
type Step struct {
	Op    string `yaml:"op"`
	Index int    `yaml:"index"`
	Count int    `yaml:"count"`
	Value string `yaml:"value"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if s.Name == "" {
		s.Name = path
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", s.Name)
	}
	for i, st := range s.Steps {
		if !knownOp(st.Op) {
			return nil, fmt.Errorf("step %d: unknown op %q", i+1, st.Op)
		}
	}
	return &s, nil
}

func knownOp(op string) bool {
	switch op {
	case "fill", "insert", "erase", "resize", "reserve", "shrink", "clear", "pop":
		return true
	}
	return false
}

// runner executes steps against an array over Counting(Limit(Heap)).
type runner struct {
	heap     *mem.Heap
	limit    *mem.Limit
	counting *mem.Counting
	arr      *dom.Array
}

const unlimitedBudget = 1 << 40

func newRunner(budget int) *runner {
	if budget <= 0 {
		budget = unlimitedBudget
	}
	h := mem.NewHeap()
	l := mem.NewLimit(h, budget)
	c := mem.NewCounting(l)
	return &runner{
		heap:     h,
		limit:    l,
		counting: c,
		arr:      dom.NewArray(c),
	}
}

// stepResult is the observable outcome of applying one step.
type stepResult struct {
	Step  Step
	Err   error
	Len   int
	Cap   int
	Stats mem.Stats
}

func (r *runner) apply(s Step) stepResult {
	err := r.applyOp(s)
	return stepResult{
		Step:  s,
		Err:   err,
		Len:   r.arr.Len(),
		Cap:   r.arr.Cap(),
		Stats: r.counting.Stats(),
	}
}

func (r *runner) applyOp(s Step) error {
	switch s.Op {
	case "fill":
		v, err := parseValue(s.Value, r.counting)
		if err != nil {
			return err
		}
		defer v.Release()
		return r.arr.Insert(r.arr.Len(), s.Count, &v)

	case "insert":
		v, err := parseValue(s.Value, r.counting)
		if err != nil {
			return err
		}
		defer v.Release()
		return r.arr.Insert(s.Index, s.Count, &v)

	case "erase":
		n := s.Count
		if n <= 0 {
			n = 1
		}
		if s.Index < 0 || s.Index+n > r.arr.Len() {
			return fmt.Errorf("erase [%d:%d] out of range [0:%d]", s.Index, s.Index+n, r.arr.Len())
		}
		r.arr.EraseRange(s.Index, s.Index+n)
		return nil

	case "resize":
		if s.Value == "" {
			return r.arr.Resize(s.Count)
		}
		v, err := parseValue(s.Value, r.counting)
		if err != nil {
			return err
		}
		defer v.Release()
		return r.arr.ResizeWith(s.Count, &v)

	case "reserve":
		return r.arr.Reserve(s.Count)

	case "shrink":
		r.arr.ShrinkToFit()
		return nil

	case "clear":
		r.arr.Clear()
		return nil

	case "pop":
		if r.arr.Len() == 0 {
			return fmt.Errorf("pop on empty array")
		}
		r.arr.PopBack()
		return nil

	default:
		return fmt.Errorf("unknown op %q", s.Op)
	}
}

func (r *runner) close() {
	r.arr.Release()
}

// parseValue interprets a scalar literal: null, booleans, integers and
// floats parse to their kinds, everything else becomes a string payload.
func parseValue(lit string, res *mem.Counting) (dom.Value, error) {
	switch lit {
	case "", "null":
		return dom.NullValue(res), nil
	case "true":
		return dom.BoolValue(true, res), nil
	case "false":
		return dom.BoolValue(false, res), nil
	}
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return dom.Int64Value(i, res), nil
	}
	if u, err := strconv.ParseUint(lit, 10, 64); err == nil {
		return dom.Uint64Value(u, res), nil
	}
	if f, err := strconv.ParseFloat(lit, 64); err == nil {
		return dom.Float64Value(f, res), nil
	}
	return dom.StringValue(strings.Trim(lit, `"`), res)
}

func formatStep(s Step) string {
	switch s.Op {
	case "fill":
		return fmt.Sprintf("fill %d x %s", s.Count, displayValue(s.Value))
	case "insert":
		return fmt.Sprintf("insert %d x %s at %d", s.Count, displayValue(s.Value), s.Index)
	case "erase":
		n := s.Count
		if n <= 0 {
			n = 1
		}
		return fmt.Sprintf("erase [%d:%d]", s.Index, s.Index+n)
	case "resize":
		if s.Value == "" {
			return fmt.Sprintf("resize to %d", s.Count)
		}
		return fmt.Sprintf("resize to %d with %s", s.Count, displayValue(s.Value))
	case "reserve":
		return fmt.Sprintf("reserve %d", s.Count)
	default:
		return s.Op
	}
}

func displayValue(lit string) string {
	if lit == "" {
		return "null"
	}
	return lit
}
