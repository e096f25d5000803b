package validation

import (
	"errors"
	"testing"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name    string
		v       Validator
		value   any
		wantErr bool
	}{
		{"required empty", Required(""), "", true},
		{"required blank", Required(""), "   ", true},
		{"required nil", Required(""), nil, true},
		{"required zero int", Required(""), 0, false},
		{"required set", Required(""), "x", false},
		{"minlength short", MinLength(3, ""), "ab", true},
		{"minlength empty", MinLength(3, ""), "", false},
		{"minlength runes", MinLength(2, ""), "日本", false},
		{"maxlength long", MaxLength(2, ""), "abc", true},
		{"maxlength ok", MaxLength(3, ""), "abc", false},
		{"pattern mismatch", Pattern(`^\d+$`, ""), "12a", true},
		{"pattern match", Pattern(`^\d+$`, ""), "123", false},
		{"email bad", Email(""), "nope", true},
		{"email good", Email(""), "a@b.io", false},
		{"min below", Min(5, ""), 4, true},
		{"min string number", Min(5, ""), "6", false},
		{"max above", Max(5, ""), 5.5, true},
		{"between out", Between(1, 3, ""), 4, true},
		{"between in", Between(1, 3, ""), 2, false},
		{"rule fail", Rule("oneof=red green", ""), "blue", true},
		{"rule ok", Rule("oneof=red green", ""), "red", false},
		{"custom", Custom(func(any) error { return errors.New("no") }), 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.v.Validate(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestDefaultMessages(t *testing.T) {
	if err := Required("").Validate(""); err.Error() != "This field is required" {
		t.Errorf("Required message = %q", err.Error())
	}
	if err := MinLength(3, "").Validate("a"); err.Error() != "Must be at least 3 characters" {
		t.Errorf("MinLength message = %q", err.Error())
	}
	if err := Rule("required", "custom").Validate(""); err.Error() != "custom" {
		t.Errorf("Rule custom message = %q", err.Error())
	}
	if err := Rule("oneof=a b", "").Validate("c"); err.Error() != `Failed rule "oneof" (a b)` {
		t.Errorf("Rule default message = %q", err.Error())
	}
}

func TestCheckRule(t *testing.T) {
	tests := []struct {
		tag     string
		wantErr bool
	}{
		{"required,email", false},
		{"gte=0,lte=130", false},
		{"omitempty,min=3", false},
		{"nosuchrule", true},
		{"required,nosuchrule", true},
		{"keys", true},
	}
	for _, tt := range tests {
		err := CheckRule(tt.tag)
		if (err != nil) != tt.wantErr {
			t.Errorf("CheckRule(%q) error = %v, wantErr %v", tt.tag, err, tt.wantErr)
		}
	}
}
