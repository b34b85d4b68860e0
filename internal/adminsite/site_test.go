package adminsite

import (
	"errors"
	"testing"
)

func TestDefaultRegistrationOrder(t *testing.T) {
	models := Default.Models()
	want := []string{ModelUserClasses, ModelUsers, ModelAssignments, ModelSubmissions}
	if len(models) != len(want) {
		t.Fatalf("registered %d models, want %d", len(models), len(want))
	}
	for i, m := range models {
		if m.Name != want[i] {
			t.Errorf("models[%d] = %s, want %s", i, m.Name, want[i])
		}
	}
}

func TestUserAdminMirrorsLoginContract(t *testing.T) {
	ua := Default.MustGet(ModelUsers)

	if first := ua.Fieldsets[0]; first.Name != "" || first.Fields[0] != "email" {
		t.Errorf("first fieldset = %+v", first)
	}

	add := ua.AddFieldsets[0].Fields
	for _, f := range []string{"email", "password1", "password2", "class_id"} {
		if !contains(add, f) {
			t.Errorf("add fieldset missing %s", f)
		}
	}

	for _, f := range []string{"email", "first_name", "last_name"} {
		if !contains(ua.SearchFields, f) {
			t.Errorf("search fields missing %s", f)
		}
	}
}

func TestParseOrdering(t *testing.T) {
	aa := Default.MustGet(ModelAssignments)

	def, err := aa.ParseOrdering("")
	if err != nil {
		t.Fatal(err)
	}
	if len(def) != 2 || def[0] != (OrderField{Field: "created_at", Desc: true}) {
		t.Errorf("default ordering = %+v", def)
	}

	got, err := aa.ParseOrdering("title, -marks")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].String() != "title" || got[1].String() != "-marks" {
		t.Errorf("ordering = %+v", got)
	}

	if _, err := aa.ParseOrdering("password_hash"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestRegisterTwice(t *testing.T) {
	s := NewSite()
	if err := s.Register(&ModelAdmin{Name: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Register(&ModelAdmin{Name: "x"}); !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("expected ErrAlreadyRegistered, got %v", err)
	}
	if _, err := s.Get("y"); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("expected ErrNotRegistered, got %v", err)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
