package datactx

import "github.com/vango-dev/datacontext/pkg/validation"

// Collector returns the context's error collector.
func (c *Context) Collector() *validation.Collector {
	return c.errs
}

// Errors returns the rendered errors recorded under key.
func (c *Context) Errors(key string) []string {
	return c.errs.Errors(key)
}

// AllErrors returns every rendered error of c followed by those of its
// components, in declaration order.
func (c *Context) AllErrors() []string {
	out := c.errs.All()
	for _, name := range c.Names() {
		if child, ok := c.components[name]; ok {
			out = append(out, child.AllErrors()...)
		}
	}
	return out
}

// IsValid reports whether key has no errors.
func (c *Context) IsValid(key string) bool {
	return c.errs.IsValid(key)
}

// Valid reports whether c has no errors and every component is valid.
func (c *Context) Valid() bool {
	if !c.errs.Valid() {
		return false
	}
	for _, child := range c.components {
		if !child.Valid() {
			return false
		}
	}
	return true
}

// Check returns a checker that records failures under key.
//
//	c.Check("age", age).Min(18, "Must be an adult")
func (c *Context) Check(key string, value any) *validation.Checker {
	return c.errs.Check(key, value)
}

// ClearErrors removes the errors recorded under key.
func (c *Context) ClearErrors(key string) {
	c.errs.Clear(key)
}

// ClearAllErrors removes every error of c and, recursively, its components.
func (c *Context) ClearAllErrors() {
	c.errs.ClearAll()
	for _, child := range c.components {
		child.ClearAllErrors()
	}
}

// IsValidating reports whether a Validate pass is in progress.
func (c *Context) IsValidating() bool {
	return c.validating
}

// Validate re-runs the setter of every writable property with its current
// value and validates every component. Change notifications are held back
// during the pass; afterwards exactly the properties whose validity changed
// are re-fired. A component counts as changed when the child's validity or
// the parent's own errors for its name changed.
func (c *Context) Validate() bool {
	for _, name := range c.validatePass() {
		v := c.Get(name)
		c.FirePropertyChange(name, v, v)
	}
	return c.Valid()
}

func (c *Context) validatePass() []string {
	c.validating = true
	defer func() { c.validating = false }()

	var changed []string
	for _, name := range c.Names() {
		d, _ := c.Property(name)
		before := c.errs.IsValid(name)

		switch {
		case d.Kind == KindComponent:
			child := c.components[name]
			childBefore := child.Valid()
			childAfter := child.Validate()
			if childBefore != childAfter || before != c.errs.IsValid(name) {
				changed = append(changed, name)
			}
		case d.Writable:
			if _, stored := c.slots[name]; d.Set == nil && !stored {
				// Keep unset slots unset so lazy defaults stay lazy.
				if d.HasValidation() {
					c.errs.Clear(name)
					c.runValidators(d, c.read(d))
				}
			} else {
				c.write(d, c.read(d))
			}
			if before != c.errs.IsValid(name) {
				changed = append(changed, name)
			}
		}
	}
	return changed
}
