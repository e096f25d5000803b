package validation

import "fmt"

// Collector maps keys to ordered error lists.
type Collector struct {
	errs map[string][]error
	keys []string
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		errs: make(map[string][]error),
	}
}

// Add appends err under key. Nil errors are ignored.
func (c *Collector) Add(key string, err error) {
	if err == nil {
		return
	}
	if ve, ok := err.(ValidationError); ok && ve.Field == "" {
		ve.Field = key
		err = ve
	}
	if _, ok := c.errs[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.errs[key] = append(c.errs[key], err)
}

// Addf appends a formatted ValidationError under key.
func (c *Collector) Addf(key, format string, args ...any) {
	c.Add(key, ValidationError{Field: key, Message: fmt.Sprintf(format, args...)})
}

// Raw returns the error values recorded for key.
func (c *Collector) Raw(key string) []error {
	errs := c.errs[key]
	if len(errs) == 0 {
		return nil
	}
	out := make([]error, len(errs))
	copy(out, errs)
	return out
}

// Errors returns the rendered errors for key, or nil.
func (c *Collector) Errors(key string) []string {
	return render(c.errs[key])
}

// All returns the rendered errors for every key, in the order the keys
// first received an error.
func (c *Collector) All() []string {
	var out []string
	for _, key := range c.keys {
		out = append(out, render(c.errs[key])...)
	}
	return out
}

// ByKey returns a copy of the rendered errors keyed by key.
func (c *Collector) ByKey() map[string][]string {
	out := make(map[string][]string, len(c.errs))
	for key, errs := range c.errs {
		out[key] = render(errs)
	}
	return out
}

// Keys returns the keys that currently have errors.
func (c *Collector) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// IsValid reports whether key has no errors.
func (c *Collector) IsValid(key string) bool {
	return len(c.errs[key]) == 0
}

// HasErrors reports whether key has at least one error.
func (c *Collector) HasErrors(key string) bool {
	return !c.IsValid(key)
}

// Valid reports whether no key has errors.
func (c *Collector) Valid() bool {
	return len(c.errs) == 0
}

// Len returns the total number of recorded errors.
func (c *Collector) Len() int {
	n := 0
	for _, errs := range c.errs {
		n += len(errs)
	}
	return n
}

// Clear removes the errors recorded for key.
func (c *Collector) Clear(key string) {
	if _, ok := c.errs[key]; !ok {
		return
	}
	delete(c.errs, key)
	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
}

// ClearAll removes every recorded error.
func (c *Collector) ClearAll() {
	c.errs = make(map[string][]error)
	c.keys = nil
}

// Check returns a checker bound to key and value.
func (c *Collector) Check(key string, value any) *Checker {
	return &Checker{collector: c, key: key, value: value}
}

func render(errs []error) []string {
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}
