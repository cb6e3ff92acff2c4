package schema

// CatalogComicGenreTable represents the 'comic_genre' table
type CatalogComicGenreTable struct {
	Table   string
	ComicID string
	GenreID string
}

// CatalogComicGenre is the schema definition for comic_genre
var CatalogComicGenre = CatalogComicGenreTable{
	Table:   "comic_genre",
	ComicID: "comic_id",
	GenreID: "genre_id",
}
