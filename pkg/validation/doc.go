// Package validation collects validation and runtime errors per key.
//
// A Collector is owned by exactly one data context. Errors are recorded
// under a key (usually a property name) and queried back as rendered
// strings; absence of a key means the key has no errors.
//
//	errs := validation.NewCollector()
//	errs.Check("email", value).
//	    Required("").
//	    Email("")
//	if !errs.IsValid("email") {
//	    fmt.Println(errs.Errors("email"))
//	}
//
// # Validators
//
// The package includes validators for common patterns:
//
//   - Required: Non-empty value
//   - MinLength/MaxLength: String length constraints
//   - Email: Valid email format
//   - Pattern: Regular expression matching
//   - Min/Max/Between: Numeric range constraints
//   - Rule: go-playground/validator tag expressions ("required,email")
//   - Custom: User-defined validation logic
//
// A Collector is not safe for concurrent use; it is mutated on the owning
// context's loop.
package validation
