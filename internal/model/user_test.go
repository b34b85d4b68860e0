package model

import "testing"

func TestUserStringIsEmail(t *testing.T) {
	u := User{Email: "ada@school.test", FirstName: "Ada", LastName: "Lovelace"}
	if u.String() != "ada@school.test" {
		t.Errorf("String() = %q", u.String())
	}
}

func TestUserFullName(t *testing.T) {
	tests := []struct {
		first, last, want string
	}{
		{"Ada", "Lovelace", "Ada Lovelace"},
		{"Ada", "", "Ada "},
		{"", "", " "},
	}
	for _, tc := range tests {
		u := User{FirstName: tc.first, LastName: tc.last}
		if got := u.FullName(); got != tc.want {
			t.Errorf("FullName(%q, %q) = %q, want %q", tc.first, tc.last, got, tc.want)
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, in := range []string{"admin", " Student ", "INSTRUCTOR"} {
		if _, err := ParseRole(in); err != nil {
			t.Errorf("ParseRole(%q) unexpected error: %v", in, err)
		}
	}
	if _, err := ParseRole("teacher"); err == nil {
		t.Error("ParseRole(teacher) expected error")
	}
	if Role("3").Valid() {
		t.Error(`Role("3") must not be valid`)
	}
}

func TestCanLogin(t *testing.T) {
	base := User{IsActive: true, IsStaff: true}
	if !base.CanLogin() {
		t.Fatal("active staff user should be able to log in")
	}

	deleted := base
	deleted.IsDeleted = true
	if deleted.CanLogin() {
		t.Error("deleted user must not log in")
	}

	nonStaff := base
	nonStaff.IsStaff = false
	if nonStaff.CanLogin() {
		t.Error("non-staff user must not log in")
	}

	inactive := base
	inactive.IsActive = false
	if inactive.CanLogin() {
		t.Error("inactive user must not log in")
	}
}

func TestPermissionsFor(t *testing.T) {
	student := &User{Role: RoleStudent}
	perms := PermissionsFor(student)
	if contains(perms, string(PermissionClassesWrite)) {
		t.Error("student must not hold classes:write")
	}
	if !contains(perms, string(PermissionSubmissionsWrite)) {
		t.Error("student should hold submissions:write")
	}

	super := &User{Role: RoleStudent, IsSuperuser: true}
	if got := len(PermissionsFor(super)); got != len(AllPermissions) {
		t.Errorf("superuser holds %d permissions, want %d", got, len(AllPermissions))
	}

	instructor := PermissionsFor(&User{Role: RoleInstructor})
	if contains(instructor, string(PermissionAssignmentsWriteAll)) {
		t.Error("instructor must not hold assignments:write_all")
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
