package adminsite

// Registered model names. They double as URL segments under /api/v1/admin.
const (
	ModelUserClasses = "classes"
	ModelUsers       = "users"
	ModelAssignments = "assignments"
	ModelSubmissions = "submissions"
)

// Default is the console's registry.
var Default = newDefaultSite()

func newDefaultSite() *Site {
	s := NewSite()
	for _, m := range []*ModelAdmin{userClassAdmin(), userAdmin(), assignmentAdmin(), submissionAdmin()} {
		if err := s.Register(m); err != nil {
			panic(err)
		}
	}
	return s
}

func userClassAdmin() *ModelAdmin {
	return &ModelAdmin{
		Name:              ModelUserClasses,
		VerboseName:       "User Class",
		VerboseNamePlural: "User Classes",
		Fieldsets: []Fieldset{
			{Fields: []string{"name"}},
		},
		ListDisplay:    []string{"name", "created_at"},
		SearchFields:   []string{"name"},
		Ordering:       []string{"name"},
		SortableFields: []string{"id", "name", "created_at", "updated_at"},
		ReadonlyFields: []string{"created_at", "updated_at"},
	}
}

func userAdmin() *ModelAdmin {
	return &ModelAdmin{
		Name:              ModelUsers,
		VerboseName:       "User",
		VerboseNamePlural: "Users",
		Fieldsets: []Fieldset{
			{Fields: []string{"email", "password"}},
			{Name: "Personal info", Fields: []string{"first_name", "last_name"}},
			{Name: "Permissions", Fields: []string{"is_active", "is_staff", "is_superuser"}},
			{Name: "User Category", Fields: []string{"role", "class_id"}},
			{Name: "Important dates", Fields: []string{"last_login", "created_at"}},
		},
		AddFieldsets: []Fieldset{
			{Classes: []string{"wide"}, Fields: []string{"email", "password1", "password2", "class_id"}},
		},
		ListDisplay:    []string{"email", "first_name", "last_name", "is_staff", "role"},
		ListFilter:     []string{"role", "class_id", "is_staff", "is_active"},
		SearchFields:   []string{"email", "first_name", "last_name"},
		Ordering:       []string{"id"},
		SortableFields: []string{"id", "email", "first_name", "last_name", "role", "is_staff", "created_at", "last_login"},
		ReadonlyFields: []string{"last_login", "created_at"},
	}
}

func assignmentAdmin() *ModelAdmin {
	return &ModelAdmin{
		Name:              ModelAssignments,
		VerboseName:       "Assignment",
		VerboseNamePlural: "Assignments",
		Fieldsets: []Fieldset{
			{Fields: []string{"title", "course", "course_code"}},
			{Name: "Scope", Fields: []string{"author_id", "class_id"}},
			{Name: "Schedule", Fields: []string{"duration", "status", "marks"}},
		},
		ListDisplay:    []string{"title", "course", "course_code", "class_id", "duration", "status", "marks"},
		ListFilter:     []string{"class_id", "status", "author_id"},
		SearchFields:   []string{"title", "course", "course_code"},
		Ordering:       []string{"-created_at", "-updated_at"},
		SortableFields: []string{"id", "title", "course", "course_code", "duration", "status", "marks", "created_at", "updated_at"},
		ReadonlyFields: []string{"created_at", "updated_at"},
	}
}

func submissionAdmin() *ModelAdmin {
	return &ModelAdmin{
		Name:              ModelSubmissions,
		VerboseName:       "Submission",
		VerboseNamePlural: "Submissions",
		Fieldsets: []Fieldset{
			{Fields: []string{"title", "content"}},
			{Name: "Scope", Fields: []string{"assignment_id", "author_id", "class_id"}},
			{Name: "Grading", Fields: []string{"status", "score", "is_draft", "is_submitted"}},
		},
		ListDisplay:    []string{"title", "assignment_id", "author_id", "status", "score"},
		ListFilter:     []string{"assignment_id", "author_id", "class_id", "status"},
		SearchFields:   []string{"title"},
		Ordering:       []string{"-created_at", "-updated_at"},
		SortableFields: []string{"id", "title", "status", "score", "created_at", "updated_at"},
		ReadonlyFields: []string{"is_draft", "is_submitted", "created_at", "updated_at"},
	}
}
