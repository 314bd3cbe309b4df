package kitsu

// searchResponse is the envelope for /manga filter queries (JSON:API).
type searchResponse struct {
	Data []Manga `json:"data"`
}

// Manga mirrors the Kitsu manga resource. Kitsu ids are numeric strings and
// averageRating is a stringified 0-100 percentage.
type Manga struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Attributes Attributes `json:"attributes"`
}

type Attributes struct {
	Slug           string       `json:"slug"`
	Synopsis       string       `json:"synopsis"`
	CanonicalTitle string       `json:"canonicalTitle"`
	AverageRating  *string      `json:"averageRating"`
	ChapterCount   *float64     `json:"chapterCount"`
	MangaType      string       `json:"mangaType"`
	PosterImage    *PosterImage `json:"posterImage"`
	Status         string       `json:"status"`
}

type PosterImage struct {
	Tiny     string `json:"tiny"`
	Small    string `json:"small"`
	Medium   string `json:"medium"`
	Large    string `json:"large"`
	Original string `json:"original"`
}
