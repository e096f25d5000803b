package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Declaration Errors (DC001-DC019)
	// ============================================

	"DC001": {
		Category:   CategoryConfig,
		Message:    "Invalid property definition",
		Suggestion: "A declaration is either a plain property, a command (Execute) or a component (Component).",
	},
	"DC002": {
		Category:   CategoryConfig,
		Message:    "Missing command action",
		Suggestion: "Commands declared with CanExecute or Modifiers must also set Execute.",
	},
	"DC003": {
		Category:   CategoryConfig,
		Message:    "Duplicate property declaration",
		Suggestion: "Declare each name once per call; use a derived type to override.",
	},
	"DC004": {
		Category:   CategoryConfig,
		Message:    "Cannot override a property with a command",
		Suggestion: "Rename the command or declare it as a plain property.",
	},
	"DC005": {
		Category:   CategoryConfig,
		Message:    "Invalid type definition",
		Suggestion: "Types need a non-empty name and must be registered in the same registry as their parent.",
	},
	"DC006": {
		Category:   CategoryConfig,
		Message:    "Unknown property",
		Suggestion: "Check the property name against the type's declarations.",
	},
	"DC007": {
		Category:   CategoryConfig,
		Message:    "Property is read-only",
		Suggestion: "Declare a Set accessor or use a default (slot-backed) property.",
	},
	"DC008": {
		Category:   CategoryConfig,
		Message:    "Construction failed",
		Suggestion: "An Init hook or initializer returned an error.",
	},
	"DC009": {
		Category:   CategoryConfig,
		Message:    "Invalid command modifier",
		Suggestion: "Check the arguments passed to the named modifier.",
	},

	// ============================================
	// Guard Errors (DC020-DC039)
	// ============================================

	"DC020": {
		Category:   CategoryGuard,
		Message:    "Command cannot execute now",
		Suggestion: "Check CanExecute first or call TryExecute.",
	},

	// ============================================
	// Runtime Errors (DC040-DC059)
	// ============================================

	"DC040": {
		Category:   CategoryRuntime,
		Message:    "Command action failed",
		Suggestion: "Inspect the wrapped error; the failure is delivered through the result.",
	},
	"DC041": {
		Category:   CategoryRuntime,
		Message:    "Command action panicked",
		Suggestion: "Return an error from the action instead of panicking.",
	},
	"DC042": {
		Category:   CategoryRuntime,
		Message:    "Command aborted",
	},

	// ============================================
	// CLI Errors (DC060-DC079)
	// ============================================

	"DC060": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Suggestion: "Create datactx.json or pass --config.",
	},
	"DC061": {
		Category:   CategoryConfig,
		Message:    "Failed to read configuration",
		Suggestion: "Check that the file is valid JSON and DATACTX_* variables are well formed.",
	},
	"DC062": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
