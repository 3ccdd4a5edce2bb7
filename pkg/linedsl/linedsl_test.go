package linedsl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type calls struct {
	vars  []string
	funcs [][]string
}

func newHost(t *testing.T, opts ...Option) (*Runtime, *calls) {
	t.Helper()
	r, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	c := &calls{}
	r.AddVar("variable", func(v string) error {
		c.vars = append(c.vars, v)
		return nil
	}).AddFunc("functionA", func(p []string) error {
		c.funcs = append(c.funcs, p)
		return nil
	}).AddFunc("functionB", func(p []string) error {
		c.funcs = append(c.funcs, p)
		return nil
	}).AddSub("exampleA")
	return r, c
}

func TestEndToEnd(t *testing.T) {
	r, c := newHost(t)

	err := r.Parse([]string{
		"variable=hello",
		"functionA(world)",
		"exampleA{",
		"functionB(x,y)",
		"}",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, c.vars)
	assert.Equal(t, [][]string{{"world"}}, c.funcs)

	require.NoError(t, r.Run("exampleA"))
	assert.Equal(t, [][]string{{"world"}, {"x", "y"}}, c.funcs)

	_, recording := r.State()
	assert.False(t, recording)
}

func TestReplayCount(t *testing.T) {
	r, c := newHost(t)
	require.NoError(t, r.Parse([]string{"exampleA{", "functionA(1)", "functionB(2,3)", "variable=4", "}"}))

	for range 3 {
		require.NoError(t, r.Run("exampleA"))
	}
	assert.Len(t, c.funcs, 6)
	assert.Equal(t, []string{"4", "4", "4"}, c.vars)
}

func TestRunUndeclared(t *testing.T) {
	r, _ := newHost(t)
	err := r.Run("nope")
	assert.ErrorIs(t, err, ErrUndeclaredSubscript)

	var rtErr *Error
	require.ErrorAs(t, err, &rtErr)
	assert.Equal(t, "nope", rtErr.Name)
}

func TestRemoveWrongKind(t *testing.T) {
	r, _ := newHost(t)

	r.RemoveFunc("variable").RemoveVar("functionA")
	cmds := r.Commands()
	assert.Contains(t, cmds, "variable")
	assert.Contains(t, cmds, "functionA")

	r.RemoveVar("variable").RemoveFunc("functionA")
	cmds = r.Commands()
	assert.NotContains(t, cmds, "variable")
	assert.NotContains(t, cmds, "functionA")
	assert.Equal(t, Function, cmds["functionB"].Kind())
}

func TestStrictAndLenient(t *testing.T) {
	lenient, c := newHost(t)
	require.NoError(t, lenient.Parse([]string{"unknown=1", "other(a)"}))
	assert.Empty(t, c.vars)
	assert.Empty(t, c.funcs)

	strict, c := newHost(t, WithStrict(true))
	assert.True(t, strict.Strict())
	err := strict.Parse([]string{"unknown=1"})
	assert.ErrorIs(t, err, ErrUnregisteredCommand)

	var lineErr *LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 1, lineErr.Line)
	assert.Empty(t, c.vars)
}

func TestResolveThroughRuntime(t *testing.T) {
	r, c := newHost(t)
	require.NoError(t, r.Parse([]string{"b=5", "a=%b", "variable=%a"}))
	assert.Equal(t, []string{"5"}, c.vars)

	err := r.Parse([]string{"x=%y", "y=%x", "variable=%x"})
	assert.ErrorIs(t, err, ErrCyclicVariable)
}

func TestParseLineAndStopParse(t *testing.T) {
	r, c := newHost(t)

	require.NoError(t, r.ParseLine("exampleA{"))
	name, recording := r.State()
	assert.True(t, recording)
	assert.Equal(t, "exampleA", name)

	require.NoError(t, r.ParseLine("functionA(late)"))
	assert.Empty(t, c.funcs)

	require.NoError(t, r.StopParse())
	_, recording = r.State()
	assert.False(t, recording)

	require.NoError(t, r.Run("exampleA"))
	assert.Equal(t, [][]string{{"late"}}, c.funcs)
}

func TestAccessorsReturnCopies(t *testing.T) {
	r, _ := newHost(t)
	require.NoError(t, r.Parse([]string{"variable=1", "exampleA{", "functionA(a)", "}", "variable=2"}))

	subs := r.Subscripts()
	require.Len(t, subs["exampleA"], 1)
	subs["exampleA"][0].Params[0] = "mutated"
	assert.Equal(t, "a", r.Subscripts()["exampleA"][0].Params[0])

	hist := r.History()
	require.Len(t, hist, 1)
	assert.Equal(t, "2", hist[0].Value())

	delete(r.Commands(), "variable")
	assert.Contains(t, r.Commands(), "variable")
}

func TestClearKeepsVocabulary(t *testing.T) {
	r, c := newHost(t)
	require.NoError(t, r.Parse([]string{"variable=1", "exampleA{", "functionA(a)", "}"}))

	r.Clear()
	assert.Empty(t, r.History())
	assert.Contains(t, r.Commands(), "variable")
	require.NoError(t, r.Run("exampleA"))
	assert.Len(t, c.funcs, 1)
}

func TestBuild(t *testing.T) {
	r, _ := newHost(t)

	cmd, ok := r.Build("functionB(x, y)")
	require.True(t, ok)
	if diff := cmp.Diff([]string{"x", "y"}, cmd.Params); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}

	_, ok = r.Build("nonsense")
	assert.False(t, ok)
}

func TestCustomSymbols(t *testing.T) {
	r, c := newHost(t, WithSymbols(":", "[", "]", "begin", "end", "$", "//"))
	assert.Equal(t, "$", r.Delimiters().Reference)

	require.NoError(t, r.Parse([]string{
		"// comment",
		"name:world",
		"variable:hello $name",
		"exampleA begin",
		"functionA[a, b]",
		"end",
	}))
	assert.Equal(t, []string{"hello world"}, c.vars)

	require.NoError(t, r.Run("exampleA"))
	assert.Equal(t, [][]string{{"a", "b"}}, c.funcs)
}

func TestPartialDelimitersUseDefaults(t *testing.T) {
	r, err := New(WithDelimiters(Delimiters{Assign: ":="}))
	require.NoError(t, err)
	defer r.Close()

	d := r.Delimiters()
	assert.Equal(t, ":=", d.Assign)
	assert.Equal(t, DefaultDelimiters().Comment, d.Comment)
}

func TestInvalidReferenceMarker(t *testing.T) {
	_, err := New(WithDelimiters(Delimiters{Reference: "%%"}))
	assert.ErrorIs(t, err, ErrInvalidDelimiters)
}

func TestParseFile(t *testing.T) {
	r, c := newHost(t)

	path := filepath.Join(t.TempDir(), "config.dsl")
	require.NoError(t, os.WriteFile(path, []byte("variable=from file\r\nfunctionA(x)\n"), 0o644))
	require.NoError(t, r.ParseFile(path))
	assert.Equal(t, []string{"from file"}, c.vars)

	err := r.ParseFile(filepath.Join(t.TempDir(), "missing.dsl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPersistRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subs.db")

	r, _ := newHost(t, WithSQLiteStore(path))
	require.NoError(t, r.Parse([]string{"exampleA{", "functionA(stored)", "functionB()", "}"}))
	require.NoError(t, r.Persist())
	require.NoError(t, r.Close())

	r2, c := newHost(t, WithSQLiteStore(path))
	r2.RemoveSub("exampleA")
	require.NoError(t, r2.Load("exampleA"))
	require.NoError(t, r2.Run("exampleA"))
	assert.Equal(t, [][]string{{"stored"}, nil}, c.funcs)
}

func TestPersistAlwaysLoadsOnRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subs.db")

	r, _ := newHost(t, WithSQLiteStore(path), WithPersistMode(PersistAlways))
	require.NoError(t, r.Parse([]string{"exampleA{", "functionA(auto)", "}"}))
	require.NoError(t, r.Close())

	r2, c := newHost(t, WithSQLiteStore(path), WithPersistMode(PersistAlways))
	r2.RemoveSub("exampleA")
	require.NoError(t, r2.Run("exampleA"))
	assert.Equal(t, [][]string{{"auto"}}, c.funcs)
}

func TestPersistWithoutStore(t *testing.T) {
	r, _ := newHost(t)
	assert.ErrorIs(t, r.Persist(), ErrNoStore)
	assert.ErrorIs(t, r.Load(), ErrNoStore)
}

func TestSQLiteStoreError(t *testing.T) {
	_, err := New(WithSQLiteStore(filepath.Join(t.TempDir(), "no", "such", "dir", "subs.db")))
	assert.Error(t, err)
}

func TestParsePersistMode(t *testing.T) {
	mode, ok := ParsePersistMode("always")
	assert.True(t, ok)
	assert.Equal(t, PersistAlways, mode)

	_, ok = ParsePersistMode("sometimes")
	assert.False(t, ok)
}

func TestNilCallbacksAreIgnored(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	defer r.Close()

	r.AddVar("x", nil).AddFunc("f", nil)
	assert.Empty(t, r.Commands())
	assert.NotPanics(t, func() {
		assert.NoError(t, r.Parse([]string{"x=1", "f(a)"}))
	})
}

func TestPersistAfterClose(t *testing.T) {
	r, _ := newHost(t, WithSQLiteStore(filepath.Join(t.TempDir(), "subs.db")))
	require.NoError(t, r.Close())
	assert.ErrorIs(t, r.Persist(), ErrNoStore)
	assert.ErrorIs(t, r.Load(), ErrNoStore)
	assert.NoError(t, r.Close())
}

// closeCounter is a store that records how often it was closed.
type closeCounter struct {
	Store
	closed int
}

func (c *closeCounter) Close() error {
	c.closed++
	return nil
}

func TestReplacedStoreIsClosed(t *testing.T) {
	first := &closeCounter{}
	second := &closeCounter{}

	r, err := New(WithStore(first), WithStore(second))
	require.NoError(t, err)
	assert.Equal(t, 1, first.closed)
	assert.Equal(t, 0, second.closed)

	require.NoError(t, r.Close())
	assert.Equal(t, 1, second.closed)
}

func TestSQLiteReplacedByMemoryStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subs.db")
	r, err := New(WithSQLiteStore(path), WithMemoryStore())
	require.NoError(t, err)
	defer r.Close()

	r.AddSub("exampleA")
	require.NoError(t, r.Persist())

	// The memory store replaced the SQLite one, so nothing reached the file.
	s, err := New(WithSQLiteStore(path))
	require.NoError(t, err)
	defer s.Close()
	assert.ErrorIs(t, s.Load("exampleA"), ErrUndeclaredSubscript)
}
