package schema

// CatalogChapterImageTable represents the 'chapter_images' table
type CatalogChapterImageTable struct {
	Table      string
	ID         string
	ChapterID  string
	PageNumber string
	ImagePath  string
	CreatedAt  string
}

// CatalogChapterImage is the schema definition for chapter_images
var CatalogChapterImage = CatalogChapterImageTable{
	Table:      "chapter_images",
	ID:         "id",
	ChapterID:  "chapter_id",
	PageNumber: "page_number",
	ImagePath:  "image_path",
	CreatedAt:  "created_at",
}

func (t CatalogChapterImageTable) Columns() []string {
	return []string{
		t.ID, t.ChapterID, t.PageNumber, t.ImagePath, t.CreatedAt,
	}
}
