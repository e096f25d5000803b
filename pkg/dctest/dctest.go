package dctest

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vango-dev/datacontext/pkg/datactx"
)

// Builder allows fluent construction of test contexts.
type Builder struct {
	typ  *datactx.Type
	args []any
	data map[string]any
}

// New creates a builder for contexts of typ.
//
// Example:
//
//	c := dctest.New(person).
//	    With("name", "Ann").
//	    With("home", map[string]any{"city": "Oslo"}).
//	    Build(t)
func New(typ *datactx.Type) *Builder {
	return &Builder{typ: typ, data: make(map[string]any)}
}

// WithArgs sets the constructor arguments passed to Init hooks.
func (b *Builder) WithArgs(args ...any) *Builder {
	b.args = args
	return b
}

// With seeds a property. Nested maps seed components.
func (b *Builder) With(key string, val any) *Builder {
	b.data[key] = val
	return b
}

// Build constructs the context and applies the seeded values with PutAll.
// Construction errors fail the test.
func (b *Builder) Build(tb testing.TB) *datactx.Context {
	tb.Helper()
	c, err := b.typ.New(b.args...)
	if err != nil {
		tb.Fatalf("dctest: constructing %s: %v", b.typ.Name(), err)
	}
	if len(b.data) > 0 {
		c.PutAll(b.data)
	}
	return c
}

// Change is one recorded notification.
type Change struct {
	Name string
	New  any
	Old  any
}

// Recorder captures property change notifications in order.
type Recorder struct {
	changes []Change
	subs    []*datactx.Subscription
}

// Watch attaches a new Recorder to c. With no names it watches every
// declared property.
func Watch(c *datactx.Context, names ...string) *Recorder {
	r := &Recorder{}
	if len(names) == 0 {
		r.subs = append(r.subs, c.Attach(r))
		return r
	}
	for _, name := range names {
		r.subs = append(r.subs, c.On(name, r))
	}
	return r
}

// PropertyChanged implements datactx.Listener.
func (r *Recorder) PropertyChanged(newValue any, name string, oldValue any) {
	r.changes = append(r.changes, Change{Name: name, New: newValue, Old: oldValue})
}

// Changes returns a copy of the recorded notifications.
func (r *Recorder) Changes() []Change {
	out := make([]Change, len(r.changes))
	copy(out, r.changes)
	return out
}

// Names returns the names of the recorded notifications in order.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.changes))
	for i, ch := range r.changes {
		names[i] = ch.Name
	}
	return names
}

// Count returns how many notifications were recorded for name.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, ch := range r.changes {
		if ch.Name == name {
			n++
		}
	}
	return n
}

// Last returns the most recent notification for name.
func (r *Recorder) Last(name string) (Change, bool) {
	for i := len(r.changes) - 1; i >= 0; i-- {
		if r.changes[i].Name == name {
			return r.changes[i], true
		}
	}
	return Change{}, false
}

// Reset forgets every recorded notification.
func (r *Recorder) Reset() {
	r.changes = nil
}

// Stop detaches the recorder from its context.
func (r *Recorder) Stop() {
	for _, s := range r.subs {
		s.Detach()
	}
	r.subs = nil
}

// ExpectFired asserts that the recorded notifications are exactly names,
// in order.
func ExpectFired(tb testing.TB, r *Recorder, names ...string) {
	tb.Helper()
	got := r.Names()
	if len(got) == 0 && len(names) == 0 {
		return
	}
	if !reflect.DeepEqual(got, names) {
		tb.Errorf("expected notifications %v, got %v", names, got)
	}
}

// ExpectNotFired asserts that none of names was notified.
func ExpectNotFired(tb testing.TB, r *Recorder, names ...string) {
	tb.Helper()
	for _, name := range names {
		if n := r.Count(name); n > 0 {
			tb.Errorf("expected no notification for %q, got %d", name, n)
		}
	}
}

// ExpectValue asserts that c.Get(name) equals want.
func ExpectValue(tb testing.TB, c *datactx.Context, name string, want any) {
	tb.Helper()
	if got := c.Get(name); !reflect.DeepEqual(got, want) {
		tb.Errorf("%s.%s = %#v, want %#v", c, name, got, want)
	}
}

// ExpectErrors asserts that the errors collected for name are exactly msgs.
func ExpectErrors(tb testing.TB, c *datactx.Context, name string, msgs ...string) {
	tb.Helper()
	got := c.Errors(name)
	if len(got) == 0 && len(msgs) == 0 {
		return
	}
	if !reflect.DeepEqual(got, msgs) {
		tb.Errorf("%s errors for %q = [%s], want [%s]",
			c, name, strings.Join(got, "; "), strings.Join(msgs, "; "))
	}
}

// ExpectValid asserts that c and its components hold no errors.
func ExpectValid(tb testing.TB, c *datactx.Context) {
	tb.Helper()
	if !c.Valid() {
		tb.Errorf("%s is invalid: %v", c, c.AllErrors())
	}
}

// ExpectInvalid asserts that c or one of its components holds an error.
func ExpectInvalid(tb testing.TB, c *datactx.Context) {
	tb.Helper()
	if c.Valid() {
		tb.Errorf("%s is valid, want errors", c)
	}
}

// ExpectState asserts that the state projection of c has want under key.
func ExpectState(tb testing.TB, c *datactx.Context, key string, want any) {
	tb.Helper()
	state := c.Describe()
	got, ok := state[key]
	if !ok {
		tb.Errorf("%s projection has no key %q", c, key)
		return
	}
	if !reflect.DeepEqual(got, want) {
		tb.Errorf("%s projection[%q] = %#v, want %#v", c, key, got, want)
	}
}
