package schema

// CatalogGenreTable represents the 'genres' table
type CatalogGenreTable struct {
	Table     string
	ID        string
	Name      string
	Slug      string
	CreatedAt string
	UpdatedAt string
}

// CatalogGenre is the schema definition for genres
var CatalogGenre = CatalogGenreTable{
	Table:     "genres",
	ID:        "id",
	Name:      "name",
	Slug:      "slug",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
}

func (t CatalogGenreTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Slug, t.CreatedAt, t.UpdatedAt,
	}
}
