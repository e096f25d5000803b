package validation

import (
	"errors"
	"testing"
)

func TestCollectorAbsentKeyIsValid(t *testing.T) {
	c := NewCollector()
	if !c.IsValid("name") {
		t.Error("IsValid() on empty collector = false, want true")
	}
	if !c.Valid() {
		t.Error("Valid() on empty collector = false, want true")
	}
	if got := c.Errors("name"); got != nil {
		t.Errorf("Errors() = %v, want nil", got)
	}
}

func TestCollectorAddAndQuery(t *testing.T) {
	c := NewCollector()
	c.Addf("name", "too short")
	c.Add("age", errors.New("negative"))
	c.Addf("name", "missing %s", "surname")
	c.Add("age", nil)

	if c.IsValid("name") {
		t.Error("IsValid(name) = true, want false")
	}
	if !c.HasErrors("age") {
		t.Error("HasErrors(age) = false, want true")
	}
	if c.Valid() {
		t.Error("Valid() = true, want false")
	}

	got := c.Errors("name")
	want := []string{"too short", "missing surname"}
	if len(got) != len(want) {
		t.Fatalf("Errors(name) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Errors(name)[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	all := c.All()
	if len(all) != 3 || all[0] != "too short" || all[2] != "negative" {
		t.Errorf("All() = %v, want key insertion order", all)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
	if keys := c.Keys(); len(keys) != 2 || keys[0] != "name" {
		t.Errorf("Keys() = %v, want [name age]", keys)
	}

	raw := c.Raw("name")
	var ve ValidationError
	if !errors.As(raw[0], &ve) || ve.Field != "name" {
		t.Errorf("Raw(name)[0] = %#v, want ValidationError for name", raw[0])
	}
}

func TestCollectorClear(t *testing.T) {
	c := NewCollector()
	c.Addf("a", "x")
	c.Addf("b", "y")

	c.Clear("a")
	if !c.IsValid("a") {
		t.Error("IsValid(a) after Clear = false, want true")
	}
	if c.IsValid("b") {
		t.Error("Clear(a) removed b")
	}
	c.Clear("missing")

	c.ClearAll()
	if !c.Valid() {
		t.Error("Valid() after ClearAll = false, want true")
	}
	if len(c.Keys()) != 0 {
		t.Errorf("Keys() after ClearAll = %v", c.Keys())
	}
}

func TestByKeyIsCopy(t *testing.T) {
	c := NewCollector()
	c.Addf("a", "x")
	m := c.ByKey()
	m["a"][0] = "mutated"
	if c.Errors("a")[0] != "x" {
		t.Error("ByKey() leaked internal state")
	}
}

func TestCheckerChain(t *testing.T) {
	c := NewCollector()

	ok := c.Check("name", "").Required("name required").MinLength(2, "").Valid()
	if ok {
		t.Error("Check(name, \"\").Valid() = true, want false")
	}
	if got := c.Errors("name"); len(got) != 1 || got[0] != "name required" {
		t.Errorf("Errors(name) = %v, want [name required]", got)
	}

	chk := c.Check("age", 7).Min(18, "adults only").Max(130, "")
	if chk.Valid() {
		t.Error("age check Valid() = true, want false")
	}
	if chk.Key() != "age" || chk.Value() != 7 {
		t.Errorf("Key/Value = %q/%v", chk.Key(), chk.Value())
	}

	if !c.Check("email", "bob@example.com").Email("").Valid() {
		t.Error("valid email rejected")
	}
	if !c.IsValid("email") {
		t.Error("passing check recorded an error")
	}
}

func TestCheckerIsAndThat(t *testing.T) {
	c := NewCollector()
	c.Check("x", 3).
		Is(false, "is failed").
		That(func(v any) bool { return v.(int) > 5 }, "that failed").
		That(func(v any) bool { return v.(int) > 1 }, "never")

	got := c.Errors("x")
	if len(got) != 2 || got[0] != "is failed" || got[1] != "that failed" {
		t.Errorf("Errors(x) = %v", got)
	}
}

func TestCheckerTag(t *testing.T) {
	c := NewCollector()
	if c.Check("email", "").Tag("required").Valid() {
		t.Error("Tag(required) on empty string passed")
	}
	if !c.Check("contact", "bob@example.com").Tag("required,email").Valid() {
		t.Error("Tag(required,email) rejected a valid address")
	}
	c.Check("age", 200).Tag("gte=0,lte=130")
	if got := c.Errors("age"); len(got) != 1 || got[0] != "Must be at most 130" {
		t.Errorf("Errors(age) = %v, want [Must be at most 130]", got)
	}
}
