package datactx

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
)

type change struct {
	name     string
	newValue any
	oldValue any
}

// changeLog records every notification it receives.
type changeLog struct {
	changes []change
}

func (l *changeLog) PropertyChanged(newValue any, name string, oldValue any) {
	l.changes = append(l.changes, change{name: name, newValue: newValue, oldValue: oldValue})
}

func (l *changeLog) count(name string) int {
	n := 0
	for _, c := range l.changes {
		if c.name == name {
			n++
		}
	}
	return n
}

func (l *changeLog) names() []string {
	out := make([]string, len(l.changes))
	for i, c := range l.changes {
		out[i] = c.name
	}
	return out
}

func (l *changeLog) reset() {
	l.changes = nil
}

func quietRegistry(opts ...Option) *Registry {
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return NewRegistry(opts...)
}

func bufferedRegistry(buf *bytes.Buffer, opts ...Option) *Registry {
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(buf, nil)))}, opts...)
	return NewRegistry(opts...)
}

func mustNew(t *testing.T, typ *Type, args ...any) *Context {
	t.Helper()
	c, err := typ.New(args...)
	if err != nil {
		t.Fatalf("%s.New() error = %v", typ.Name(), err)
	}
	return c
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
