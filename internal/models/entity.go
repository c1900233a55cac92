package models

// Entity describes one CRM record type served by the backend
type Entity struct {
	Name        string // sidebar label
	Table       string // backend table name
	Columns     ColumnSchema
	DefaultSort *SortDirective
}

// Entities returns the CRM entities in sidebar order
func Entities() []Entity {
	return []Entity{
		{
			Name:  "Properties",
			Table: "properties",
			Columns: ColumnSchema{
				{Key: "title", Label: "Title", Type: ColumnText, Searchable: true},
				{Key: "city", Label: "City", Type: ColumnText, Searchable: true},
				{Key: "district", Label: "District", Type: ColumnText, Searchable: true},
				{Key: "status", Label: "Status", Type: ColumnText, Searchable: true},
				{Key: "price", Label: "Price", Type: ColumnNumber},
				{Key: "area", Label: "Living Area", Type: ColumnNumber},
				{Key: "rooms", Label: "Rooms", Type: ColumnNumber},
				{Key: "listed_at", Label: "Listed At", Type: ColumnDate},
			},
			DefaultSort: &SortDirective{Column: "listed_at", Direction: SortDesc},
		},
		{
			Name:  "Projects",
			Table: "projects",
			Columns: ColumnSchema{
				{Key: "name", Label: "Name", Type: ColumnText, Searchable: true},
				{Key: "developer", Label: "Developer", Type: ColumnText, Searchable: true},
				{Key: "city", Label: "City", Type: ColumnText, Searchable: true},
				{Key: "status", Label: "Status", Type: ColumnText, Searchable: true},
				{Key: "units", Label: "Units", Type: ColumnNumber},
				{Key: "started_at", Label: "Started At", Type: ColumnDate},
			},
			DefaultSort: &SortDirective{Column: "name", Direction: SortAsc},
		},
		{
			Name:  "Contacts",
			Table: "contacts",
			Columns: ColumnSchema{
				{Key: "name", Label: "Name", Type: ColumnText, Searchable: true},
				{Key: "email", Label: "Email", Type: ColumnText, Searchable: true},
				{Key: "phone", Label: "Phone", Type: ColumnText, Searchable: true},
				{Key: "source", Label: "Lead Source", Type: ColumnText, Searchable: true},
				{Key: "budget", Label: "Budget", Type: ColumnNumber},
				{Key: "created_at", Label: "Created At", Type: ColumnDate},
			},
			DefaultSort: &SortDirective{Column: "created_at", Direction: SortDesc},
		},
		{
			Name:  "Employees",
			Table: "employees",
			Columns: ColumnSchema{
				{Key: "name", Label: "Name", Type: ColumnText, Searchable: true},
				{Key: "role", Label: "Role", Type: ColumnText, Searchable: true},
				{Key: "email", Label: "Email", Type: ColumnText, Searchable: true},
				{Key: "branch", Label: "Branch", Type: ColumnText, Searchable: true},
				{Key: "hired_at", Label: "Hired At", Type: ColumnDate},
			},
			DefaultSort: &SortDirective{Column: "name", Direction: SortAsc},
		},
	}
}

// rolePermissions maps a role to the entity tables it may browse.
// Role management itself lives in the backend; this is a lookup table.
var rolePermissions = map[string][]string{
	"admin":   {"properties", "projects", "contacts", "employees"},
	"manager": {"properties", "projects", "contacts", "employees"},
	"agent":   {"properties", "projects", "contacts"},
	"viewer":  {"properties", "projects"},
}

// EntitiesForRole filters the entity list down to what the role may see.
// Unknown roles get the most restrictive set.
func EntitiesForRole(role string) []Entity {
	allowed, ok := rolePermissions[role]
	if !ok {
		allowed = rolePermissions["viewer"]
	}

	allowedSet := make(map[string]bool, len(allowed))
	for _, table := range allowed {
		allowedSet[table] = true
	}

	var result []Entity
	for _, e := range Entities() {
		if allowedSet[e.Table] {
			result = append(result, e)
		}
	}
	return result
}
