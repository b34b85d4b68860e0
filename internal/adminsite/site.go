// Package adminsite holds the admin console registrations: how each model
// is grouped into fieldsets, which columns a listing shows, what a search
// matches and how results are ordered.
package adminsite

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrAlreadyRegistered = errors.New("model already registered")
	ErrNotRegistered     = errors.New("model not registered")
	ErrUnknownField      = errors.New("unknown ordering field")
)

// Fieldset is a titled group of form fields. An empty Name renders untitled.
type Fieldset struct {
	Name        string   `json:"name"`
	Classes     []string `json:"classes,omitempty"`
	Fields      []string `json:"fields"`
	Description string   `json:"description,omitempty"`
}

// OrderField is one term of an ORDER BY.
type OrderField struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc"`
}

func (o OrderField) String() string {
	if o.Desc {
		return "-" + o.Field
	}
	return o.Field
}

// ModelAdmin describes how the console presents one model.
type ModelAdmin struct {
	Name              string     `json:"name"`
	VerboseName       string     `json:"verbose_name"`
	VerboseNamePlural string     `json:"verbose_name_plural"`
	Fieldsets         []Fieldset `json:"fieldsets"`
	AddFieldsets      []Fieldset `json:"add_fieldsets,omitempty"`
	ListDisplay       []string   `json:"list_display"`
	ListFilter        []string   `json:"list_filter,omitempty"`
	SearchFields      []string   `json:"search_fields,omitempty"`
	Ordering          []string   `json:"ordering"`
	SortableFields    []string   `json:"sortable_fields"`
	ReadonlyFields    []string   `json:"readonly_fields,omitempty"`
}

// ParseOrdering turns a comma separated "o" parameter such as
// "-created_at,title" into order terms. An empty parameter yields the
// model's default ordering.
func (m *ModelAdmin) ParseOrdering(param string) ([]OrderField, error) {
	terms := m.Ordering
	if strings.TrimSpace(param) != "" {
		terms = strings.Split(param, ",")
	}

	out := make([]OrderField, 0, len(terms))
	for _, raw := range terms {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		of := OrderField{Field: strings.TrimPrefix(raw, "-"), Desc: strings.HasPrefix(raw, "-")}
		if !m.sortable(of.Field) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, of.Field)
		}
		out = append(out, of)
	}
	return out, nil
}

func (m *ModelAdmin) sortable(field string) bool {
	for _, f := range m.SortableFields {
		if f == field {
			return true
		}
	}
	return false
}

// Site is a registry of ModelAdmins in registration order.
type Site struct {
	mu     sync.RWMutex
	order  []string
	models map[string]*ModelAdmin
}

// NewSite returns an empty registry.
func NewSite() *Site {
	return &Site{models: make(map[string]*ModelAdmin)}
}

// Register adds a model. Registering the same name twice is an error.
func (s *Site) Register(m *ModelAdmin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.models[m.Name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, m.Name)
	}
	s.models[m.Name] = m
	s.order = append(s.order, m.Name)
	return nil
}

// Get looks up a registration by name.
func (s *Site) Get(name string) (*ModelAdmin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}
	return m, nil
}

// MustGet is Get for names registered at startup.
func (s *Site) MustGet(name string) *ModelAdmin {
	m, err := s.Get(name)
	if err != nil {
		panic(err)
	}
	return m
}

// Models returns all registrations in registration order.
func (s *Site) Models() []*ModelAdmin {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*ModelAdmin, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.models[name])
	}
	return out
}
