package eval

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nickandperla.net/linedsl/internal/command"
)

func TestResolveChain(t *testing.T) {
	e := newTestEvaluator(t)
	var got string
	e.Define("a", command.VariableFunc(func(v string) error {
		got = v
		return nil
	}))

	if err := e.Parse([]string{"b=5", "a=%b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "5" {
		t.Errorf("expected '5', got '%s'", got)
	}

	// Resolution happens at dispatch time against the current history.
	e.Parse([]string{"c=%a and %b", "b=6"})
	v, err := e.Resolve(command.New("probe", "%c"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "6 and 6" {
		t.Errorf("expected '6 and 6', got '%s'", v)
	}
}

func TestResolveLiterals(t *testing.T) {
	e := newTestEvaluator(t)
	e.Parse([]string{"pct=50"})

	tests := map[string]string{
		"plain":          "plain",
		"%pct% off":      "50% off",
		"100 %":          "100 %",
		"%pct%pct":       "5050",
		"x%pct.y":        "x50.y",
		"":               "",
		"%% and %pct %%": "%% and 50 %%",
	}
	for in, want := range tests {
		got, err := e.Resolve(command.New("probe", in))
		if err != nil {
			t.Errorf("Resolve(%q): unexpected error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("Resolve(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveNoParams(t *testing.T) {
	e := newTestEvaluator(t)
	e.Parse([]string{"empty()"})
	got, err := e.Resolve(command.New("probe", "[%empty]"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "[]" {
		t.Errorf("expected '[]', got '%s'", got)
	}
}

func TestResolveUnresolved(t *testing.T) {
	e := newTestEvaluator(t)
	e.Define("a", command.VariableFunc(func(string) error {
		t.Error("handler must not run with a partial value")
		return nil
	}))

	err := e.Parse([]string{"a=hello %missing"})
	if !errors.Is(err, ErrUnresolvedVariable) {
		t.Fatalf("expected ErrUnresolvedVariable, got %v", err)
	}
	var rtErr *Error
	if !errors.As(err, &rtErr) || rtErr.Name != "missing" {
		t.Errorf("expected error naming 'missing', got %v", err)
	}
}

func TestResolveCycles(t *testing.T) {
	tests := []struct {
		name   string
		script []string
		chain  []string
	}{
		{"self", []string{"a=%a"}, []string{"a", "a"}},
		{"pair", []string{"b=%a", "a=%b"}, []string{"b", "a", "b"}},
		{"triangle", []string{"c=%a", "b=%c", "a=%b"}, []string{"b", "c", "a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEvaluator(t)
			e.Define("a", command.VariableFunc(func(string) error { return nil }))

			err := e.Parse(tt.script)
			if !errors.Is(err, ErrCyclicVariable) {
				t.Fatalf("expected ErrCyclicVariable, got %v", err)
			}
			var rtErr *Error
			if !errors.As(err, &rtErr) {
				t.Fatalf("expected structured error, got %T", err)
			}
			if diff := cmp.Diff(tt.chain, rtErr.Chain); diff != "" {
				t.Errorf("chain mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveDiamondIsNotACycle(t *testing.T) {
	e := newTestEvaluator(t)
	e.Parse([]string{"leaf=x", "left=%leaf", "right=%leaf"})
	got, err := e.Resolve(command.New("probe", "%left-%right-%leaf"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "x-x-x" {
		t.Errorf("expected 'x-x-x', got '%s'", got)
	}
}

func TestReplayResolvesAgainstHistory(t *testing.T) {
	e := newTestEvaluator(t)
	var got []string
	e.Define("a", command.VariableFunc(func(v string) error {
		got = append(got, v)
		return nil
	}))
	e.Declare("block")

	// Inside a subscript a=%a refers to the top-level a, not to itself.
	if err := e.Parse([]string{"block{", "a=[%a]", "}", "a=1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.Run("block"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"1", "[1]"}, got); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}
