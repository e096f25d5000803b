package validation

// Checker runs validators against one value and records failures under
// its key. Methods return the checker so calls can be chained.
type Checker struct {
	collector *Collector
	key       string
	value     any
	failed    int
}

// Key returns the key failures are recorded under.
func (k *Checker) Key() string {
	return k.key
}

// Value returns the value being checked.
func (k *Checker) Value() any {
	return k.value
}

// Valid reports whether every check in this chain passed.
func (k *Checker) Valid() bool {
	return k.failed == 0
}

// Use runs each validator and records its error, if any.
func (k *Checker) Use(validators ...Validator) *Checker {
	for _, v := range validators {
		if v == nil {
			continue
		}
		if err := v.Validate(k.value); err != nil {
			k.fail(err)
		}
	}
	return k
}

// Is records msg when ok is false.
func (k *Checker) Is(ok bool, msg string) *Checker {
	if !ok {
		k.fail(ValidationError{Message: msg})
	}
	return k
}

// That records msg when pred rejects the value.
func (k *Checker) That(pred func(value any) bool, msg string) *Checker {
	return k.Is(pred(k.value), msg)
}

// Required records an error when the value is empty.
func (k *Checker) Required(msg string) *Checker {
	return k.Use(Required(msg))
}

// MinLength records an error when the value is shorter than n runes.
func (k *Checker) MinLength(n int, msg string) *Checker {
	return k.Use(MinLength(n, msg))
}

// MaxLength records an error when the value is longer than n runes.
func (k *Checker) MaxLength(n int, msg string) *Checker {
	return k.Use(MaxLength(n, msg))
}

// Email records an error when the value is not an email address.
func (k *Checker) Email(msg string) *Checker {
	return k.Use(Email(msg))
}

// Min records an error when the value is below n.
func (k *Checker) Min(n any, msg string) *Checker {
	return k.Use(Min(n, msg))
}

// Max records an error when the value is above n.
func (k *Checker) Max(n any, msg string) *Checker {
	return k.Use(Max(n, msg))
}

// Tag checks the value against a go-playground/validator tag expression.
func (k *Checker) Tag(tag string) *Checker {
	return k.Use(Rule(tag, ""))
}

func (k *Checker) fail(err error) {
	k.failed++
	k.collector.Add(k.key, err)
}
