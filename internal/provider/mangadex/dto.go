package mangadex

// searchResponse is the envelope for /manga list queries.
type searchResponse struct {
	Result string  `json:"result"`
	Data   []Manga `json:"data"`
}

// Manga mirrors the MangaDex manga resource. MangaDex ids are UUIDs, titles
// and descriptions are per-language maps, and there is no community score in
// search responses.
type Manga struct {
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	Attributes    Attributes     `json:"attributes"`
	Relationships []Relationship `json:"relationships"`
}

type Attributes struct {
	Title                  map[string]string `json:"title"`
	Description            map[string]string `json:"description"`
	PublicationDemographic *string           `json:"publicationDemographic"`
	LastChapter            *string           `json:"lastChapter"`
	Status                 string            `json:"status"`
	Tags                   []Tag             `json:"tags"`
}

type Tag struct {
	ID         string        `json:"id"`
	Type       string        `json:"type"`
	Attributes TagAttributes `json:"attributes"`
}

type TagAttributes struct {
	Name  map[string]string `json:"name"`
	Group string            `json:"group"`
}

// Relationship carries linked resources; covers arrive as type "cover_art"
// with the image file name in the attributes blob.
type Relationship struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Attributes map[string]interface{} `json:"attributes"`
}
