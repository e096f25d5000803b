package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Validator checks a single value.
type Validator interface {
	// Validate returns nil if value is valid, or an error describing why not.
	Validate(value any) error
}

// ValidatorFunc is a function that implements Validator.
type ValidatorFunc func(value any) error

func (f ValidatorFunc) Validate(value any) error {
	return f(value)
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// ----------------------------------------------------------------------------
// String Validators
// ----------------------------------------------------------------------------

// Required validates that the value is non-empty.
func Required(msg string) Validator {
	if msg == "" {
		msg = "This field is required"
	}
	return ValidatorFunc(func(value any) error {
		if isEmpty(value) {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// MinLength validates that a string has at least n characters.
func MinLength(n int, msg string) Validator {
	if msg == "" {
		msg = fmt.Sprintf("Must be at least %d characters", n)
	}
	return ValidatorFunc(func(value any) error {
		s := toString(value)
		if s == "" {
			return nil // Required handles empty values
		}
		if len([]rune(s)) < n {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// MaxLength validates that a string has at most n characters.
func MaxLength(n int, msg string) Validator {
	if msg == "" {
		msg = fmt.Sprintf("Must be at most %d characters", n)
	}
	return ValidatorFunc(func(value any) error {
		if len([]rune(toString(value))) > n {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// Pattern validates that a string matches the given regular expression.
func Pattern(pattern string, msg string) Validator {
	re := regexp.MustCompile(pattern)
	if msg == "" {
		msg = "Invalid format"
	}
	return ValidatorFunc(func(value any) error {
		s := toString(value)
		if s == "" {
			return nil
		}
		if !re.MatchString(s) {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email validates that the value is a valid email address.
func Email(msg string) Validator {
	if msg == "" {
		msg = "Invalid email address"
	}
	return ValidatorFunc(func(value any) error {
		s := toString(value)
		if s == "" {
			return nil
		}
		if !emailPattern.MatchString(s) {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// ----------------------------------------------------------------------------
// Numeric Validators
// ----------------------------------------------------------------------------

// Min validates that a numeric value is >= n.
func Min(n any, msg string) Validator {
	minVal := toFloat64(n)
	if msg == "" {
		msg = fmt.Sprintf("Must be at least %v", n)
	}
	return ValidatorFunc(func(value any) error {
		if isEmpty(value) {
			return nil
		}
		if toFloat64(value) < minVal {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// Max validates that a numeric value is <= n.
func Max(n any, msg string) Validator {
	maxVal := toFloat64(n)
	if msg == "" {
		msg = fmt.Sprintf("Must be at most %v", n)
	}
	return ValidatorFunc(func(value any) error {
		if isEmpty(value) {
			return nil
		}
		if toFloat64(value) > maxVal {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// Between validates that a numeric value is between min and max (inclusive).
func Between(min, max any, msg string) Validator {
	minVal := toFloat64(min)
	maxVal := toFloat64(max)
	if msg == "" {
		msg = fmt.Sprintf("Must be between %v and %v", min, max)
	}
	return ValidatorFunc(func(value any) error {
		if isEmpty(value) {
			return nil
		}
		v := toFloat64(value)
		if v < minVal || v > maxVal {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// ----------------------------------------------------------------------------
// Tag and Custom Validators
// ----------------------------------------------------------------------------

var (
	tagValidator     *validator.Validate
	tagValidatorOnce sync.Once
)

func tags() *validator.Validate {
	tagValidatorOnce.Do(func() {
		tagValidator = validator.New(validator.WithRequiredStructEnabled())
	})
	return tagValidator
}

// Rule validates the value against a go-playground/validator tag expression
// such as "required,email" or "gte=0,lte=130". When msg is empty the message
// names the first failing rule.
func Rule(tag string, msg string) Validator {
	return ValidatorFunc(func(value any) error {
		err := tags().Var(value, tag)
		if err == nil {
			return nil
		}
		if msg != "" {
			return ValidationError{Message: msg}
		}
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return ValidationError{Message: ruleMessage(fieldErrs[0])}
		}
		return ValidationError{Message: err.Error()}
	})
}

// CheckRule reports whether tag parses as a validator expression. Unknown
// rule names and malformed expressions are errors.
func CheckRule(tag string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("invalid rule %q: %v", tag, p)
		}
	}()
	_ = tags().Var(nil, tag)
	return nil
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email address"
	case "min", "gte":
		return "Must be at least " + fe.Param()
	case "max", "lte":
		return "Must be at most " + fe.Param()
	}
	if fe.Param() != "" {
		return fmt.Sprintf("Failed rule %q (%s)", fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("Failed rule %q", fe.Tag())
}

// Custom creates a validator from a custom function.
func Custom(fn func(value any) error) Validator {
	return ValidatorFunc(fn)
}

// ----------------------------------------------------------------------------
// Helper Functions
// ----------------------------------------------------------------------------

// isEmpty checks if a value is considered empty.
func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v) == ""
	case []byte:
		return len(v) == 0
	case []string:
		return len(v) == 0
	default:
		return false // 0 and false are values, not absence
	}
}

// toString converts a value to a string.
func toString(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// toFloat64 converts a value to float64.
func toFloat64(value any) float64 {
	switch v := value.(type) {
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case float32:
		return float64(v)
	case float64:
		return v
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}
