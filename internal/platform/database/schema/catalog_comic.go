package schema

// CatalogComicTable represents the 'comics' table
type CatalogComicTable struct {
	Table      string
	ID         string
	Title      string
	Slug       string
	Author     string
	Status     string
	Type       string
	Synopsis   string
	CoverImage string
	CreatedAt  string
	UpdatedAt  string
	DeletedAt  string
}

// CatalogComic is the schema definition for comics
var CatalogComic = CatalogComicTable{
	Table:      "comics",
	ID:         "id",
	Title:      "title",
	Slug:       "slug",
	Author:     "author",
	Status:     "status",
	Type:       "type",
	Synopsis:   "synopsis",
	CoverImage: "cover_image",
	CreatedAt:  "created_at",
	UpdatedAt:  "updated_at",
	DeletedAt:  "deleted_at",
}

func (t CatalogComicTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Slug, t.Author, t.Status, t.Type,
		t.Synopsis, t.CoverImage, t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
