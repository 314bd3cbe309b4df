package jikan

// searchResponse is the envelope for /v4/manga list queries.
type searchResponse struct {
	Data []Manga `json:"data"`
}

// lookupResponse is the envelope for /v4/manga/{id}.
type lookupResponse struct {
	Data *Manga `json:"data"`
}

// Manga mirrors the Jikan (MyAnimeList) manga resource. Only the fields the
// mapper consumes are declared.
type Manga struct {
	MalID    int      `json:"mal_id"`
	URL      string   `json:"url"`
	Images   Images   `json:"images"`
	Title    string   `json:"title"`
	Type     *string  `json:"type"`
	Chapters *float64 `json:"chapters"`
	Status   string   `json:"status"`
	Score    *float64 `json:"score"`
	Synopsis *string  `json:"synopsis"`
	Genres   []Genre  `json:"genres"`
}

// Images groups the jpg/webp variants Jikan serves for every cover.
type Images struct {
	JPG  ImageSet `json:"jpg"`
	WebP ImageSet `json:"webp"`
}

type ImageSet struct {
	ImageURL      string `json:"image_url"`
	SmallImageURL string `json:"small_image_url"`
	LargeImageURL string `json:"large_image_url"`
}

type Genre struct {
	MalID int    `json:"mal_id"`
	Type  string `json:"type"`
	Name  string `json:"name"`
}
