package kitsu

import (
	"strconv"

	"mangatrack/internal/domain"
)

// mapSeries converts Kitsu manga resources to normalized results.
func mapSeries(data []Manga) []domain.SeriesResult {
	results := make([]domain.SeriesResult, 0, len(data))
	for _, m := range data {
		results = append(results, mapOne(m))
	}
	return results
}

func mapOne(m Manga) domain.SeriesResult {
	// averageRating is a 0-100 percentage serialized as a string.
	var score *float64
	if m.Attributes.AverageRating != nil {
		if v, err := strconv.ParseFloat(*m.Attributes.AverageRating, 64); err == nil {
			v /= 10
			score = &v
		}
	}

	var synopsis *string
	if m.Attributes.Synopsis != "" {
		s := m.Attributes.Synopsis
		synopsis = &s
	}

	return domain.SeriesResult{
		// Kitsu ids are numeric but live in Kitsu's own id space, not the
		// one the by-id lookup targets, so identity stays slug-based.
		ExternalID:   0,
		Title:        m.Attributes.CanonicalTitle,
		Type:         domain.ParseSeriesType(m.Attributes.MangaType),
		ChapterCount: m.Attributes.ChapterCount,
		Score:        score,
		Synopsis:     synopsis,
		Genres:       nil, // Kitsu's search endpoint does not include genres
		CoverURL:     posterURL(m.Attributes.PosterImage),
		Source:       ProviderName,
	}
}

// posterURL prefers the original poster and falls back through the sized
// variants.
func posterURL(img *PosterImage) string {
	if img == nil {
		return ""
	}
	for _, u := range []string{img.Original, img.Large, img.Medium, img.Small} {
		if u != "" {
			return u
		}
	}
	return ""
}
