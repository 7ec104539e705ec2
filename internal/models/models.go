package models

import "time"

// User is an account that owns todos.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// Todo is a single task owned by one user.
type Todo struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Task      string    `json:"task"`
	Category  string    `json:"category"`
	Done      bool      `json:"done"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

// DefaultPriority is the display label attached to every listed todo.
const DefaultPriority = "medium"

// TodoView is the projection of a Todo rendered by the list page.
type TodoView struct {
	ID        int64
	Task      string
	Category  string
	Color     string
	Done      bool
	Priority  string
	ImageURL  string
	CreatedAt time.Time
}

// Stats summarizes a user's todos.
type Stats struct {
	Total          int
	Completed      int
	CompletionRate float64
}

// DefaultCategory is assigned when no or an unknown category is submitted.
const DefaultCategory = "general"

// FilterAll disables category filtering on the list page.
const FilterAll = "all"

// Category pairs a category name with its display color.
type Category struct {
	Name  string
	Color string
}

// Palette is the closed, ordered set of valid categories.
type Palette []Category

// DefaultPalette returns the built-in category palette.
func DefaultPalette() Palette {
	return Palette{
		{Name: "work", Color: "#ff0000"},
		{Name: "study", Color: "#f47505"},
		{Name: "life", Color: "#dbfc00"},
		{Name: "shopping", Color: "#00FA15"},
		{Name: "health", Color: "#008CFF"},
		{Name: "entertainment", Color: "#0509FA"},
		{Name: DefaultCategory, Color: "#9500FF"},
	}
}

// Names lists category names in palette order.
func (p Palette) Names() []string {
	names := make([]string, 0, len(p))
	for _, c := range p {
		names = append(names, c.Name)
	}
	return names
}

// Colors maps each category name to its color.
func (p Palette) Colors() map[string]string {
	colors := make(map[string]string, len(p))
	for _, c := range p {
		colors[c.Name] = c.Color
	}
	return colors
}

// Color returns the color for name, or the default category color when name is unknown.
func (p Palette) Color(name string) string {
	for _, c := range p {
		if c.Name == name {
			return c.Color
		}
	}
	for _, c := range p {
		if c.Name == DefaultCategory {
			return c.Color
		}
	}
	return ""
}

// Contains reports whether name is a valid category.
func (p Palette) Contains(name string) bool {
	for _, c := range p {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Normalize maps unknown or empty categories to DefaultCategory. Submitted
// values outside the palette are not stored verbatim.
func (p Palette) Normalize(name string) string {
	if p.Contains(name) {
		return name
	}
	return DefaultCategory
}
