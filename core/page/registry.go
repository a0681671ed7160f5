package page

import (
	"github.com/pkg/errors"

	"github.com/mfanajozi/dipapa/core/status"
	"github.com/mfanajozi/dipapa/core/table"
)

// Registry holds the pages in menu order.
type Registry struct {
	pages  []*Page
	byName map[string]*Page
}

// NewRegistry fails when two pages share a name or a path.
func NewRegistry(pages ...*Page) (*Registry, error) {
	reg := &Registry{byName: make(map[string]*Page, len(pages))}
	paths := make(map[string]string, len(pages))
	for _, p := range pages {
		if _, ok := reg.byName[p.Name]; ok {
			return nil, errors.Errorf("page %s: duplicate name", p.Name)
		}
		if other, ok := paths[p.Path]; ok {
			return nil, errors.Errorf("page %s: path %s already used by page %s", p.Name, p.Path, other)
		}
		reg.byName[p.Name] = p
		paths[p.Path] = p.Name
		reg.pages = append(reg.pages, p)
	}
	return reg, nil
}

func (reg *Registry) Lookup(name string) (*Page, bool) {
	p, ok := reg.byName[name]
	return p, ok
}

func (reg *Registry) All() []*Page {
	return append([]*Page(nil), reg.pages...)
}

// Sizing overrides the table defaults of every page of Default.
type Sizing struct {
	PageSize     int
	SkeletonRows int
}

func options(labels ...string) []table.FilterOption {
	opts := make([]table.FilterOption, len(labels))
	for i, l := range labels {
		opts[i] = table.FilterOption{Label: l, Value: l}
	}
	return opts
}

// Default returns the dashboard pages.
func Default(size Sizing) (*Registry, error) {
	configs := []Config{
		{
			Name:        "users",
			Path:        "/users",
			Description: "Manage user profiles and information.",
			CreateLabel: "Add User",
			Columns: []table.Column{
				table.Custom("avatar_url", "", AvatarCell("first_name", "surname")),
				table.Text("student_id", "Student ID"),
				table.Text("first_name", "First Name"),
				table.Text("surname", "Surname"),
				table.Text("email", "Email"),
			},
			SearchKey:         "email",
			SearchPlaceholder: "Search by email...",
			Heading: func(rec table.Record) string {
				return FullName(rec, "first_name", "middle_name", "surname")
			},
			Avatar: true,
		},
		{
			Name:        "events",
			Path:        "/content/events",
			Description: "Create and manage events.",
			CreateLabel: "Add Event",
			Columns: []table.Column{
				table.Text("title", "Title"),
				table.Text("user_group", "User Group"),
				table.Text("location", "Location"),
				table.Custom("date", "Date", DateCell),
				table.Custom("time", "Time", TimeCell),
			},
			SearchKey:         "title",
			SearchPlaceholder: "Search by title...",
		},
		{
			Name:        "news",
			Path:        "/content/news",
			Description: "Create and manage building news articles.",
			CreateLabel: "Add News Article",
			Columns: []table.Column{
				table.Text("title", "Title"),
				table.Text("user_group", "User Group"),
				table.Custom("date", "Date", DateCell),
				table.Custom("article", "Content", TruncateCell),
			},
			SearchKey:         "title",
			SearchPlaceholder: "Search by title...",
		},
		{
			Name:        "resources",
			Path:        "/content/resources",
			Description: "Create and manage wellness resources.",
			CreateLabel: "Add Resource",
			Columns: []table.Column{
				table.Text("title", "Title"),
				table.Text("user_group", "User Group"),
				table.Custom("date", "Date", DateCell),
				table.Custom("article", "Content", TruncateCell),
			},
			SearchKey:         "title",
			SearchPlaceholder: "Search by title...",
		},
		{
			Name:        "messages",
			Path:        "/messages",
			Description: "Create and manage messages for users.",
			CreateLabel: "Create Message",
			Columns: []table.Column{
				table.Text("title", "Title"),
				table.Text("user_group", "User Group"),
				table.Text("from", "From"),
				table.Custom("message", "Message", TruncateCell),
				table.Custom("date", "Date", DateCell),
			},
			SearchKey:         "title",
			SearchPlaceholder: "Search by title...",
		},
		{
			Name:        "queries",
			Path:        "/queries",
			Description: "Manage queries and feedback.",
			Columns: []table.Column{
				table.Text("title", "Title"),
				table.Custom("description", "Description", TruncateCell),
				table.Custom("status", "Status", status.BadgeCell),
				table.Text("notes", "Notes"),
			},
			SearchKey:         "title",
			SearchPlaceholder: "Search by title...",
			FilterKey:         "status",
			FilterOptions:     options("New", "Open", "In Progress", "Closed"),
			Pin:               &Pin{Key: "status", Value: "New"},
		},
		{
			Name:        "stipends",
			Path:        "/stipends",
			Title:       "Stipend",
			Description: "Manage stipend records.",
			Columns: []table.Column{
				table.Text("student_id", "Student ID"),
				table.Custom("amount", "Amount", AmountCell),
				table.Custom("status", "Status", status.BadgeCell),
			},
			SearchKey:         "student_id",
			SearchPlaceholder: "Search by student ID...",
			FilterKey:         "status",
			FilterOptions:     options("Pending", "Processing", "Approved", "Rejected"),
		},
		{
			Name:        "support",
			Path:        "/support",
			Description: "Manage support tickets.",
			Columns: []table.Column{
				table.Text("title", "Ticket Title"),
				table.Custom("status", "Status", status.BadgeCell),
				table.Custom("date", "Date", DateCell),
			},
			SearchKey:         "title",
			SearchPlaceholder: "Search by title...",
			FilterKey:         "status",
			FilterOptions:     options("Open", "In Progress", "Closed"),
		},
		{
			Name:        "visitors",
			Path:        "/visitors",
			Description: "Manage visitor codes and access.",
			CreateLabel: "Generate Visitor Code",
			Columns: []table.Column{
				table.Text("full_name", "Name"),
				table.Text("email", "Email"),
				table.Text("visitor_code", "Code"),
				table.Custom("code_status", "Status", status.BadgeCell),
				table.Custom("date", "Date", DateCell),
				table.Custom("time_entry", "Entry Time", TimeCell),
			},
			SearchKey:         "full_name",
			SearchPlaceholder: "Search by name...",
			FilterKey:         "code_status",
			FilterOptions:     options("Generated", "Used", "Expired"),
		},
	}

	pages := make([]*Page, 0, len(configs))
	for _, cfg := range configs {
		cfg.PageSize = size.PageSize
		cfg.SkeletonRows = size.SkeletonRows
		p, err := New(cfg)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return NewRegistry(pages...)
}
