package schema

// CatalogChapterTable represents the 'chapters' table
type CatalogChapterTable struct {
	Table     string
	ID        string
	ComicID   string
	Number    string
	Title     string
	Slug      string
	CreatedAt string
	UpdatedAt string
}

// CatalogChapter is the schema definition for chapters
var CatalogChapter = CatalogChapterTable{
	Table:     "chapters",
	ID:        "id",
	ComicID:   "comic_id",
	Number:    "number",
	Title:     "title",
	Slug:      "slug",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
}

func (t CatalogChapterTable) Columns() []string {
	return []string{
		t.ID, t.ComicID, t.Number, t.Title, t.Slug, t.CreatedAt, t.UpdatedAt,
	}
}
