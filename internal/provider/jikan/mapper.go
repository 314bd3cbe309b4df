package jikan

import "mangatrack/internal/domain"

// mapSeries converts Jikan manga resources to normalized results.
func mapSeries(data []Manga) []domain.SeriesResult {
	results := make([]domain.SeriesResult, 0, len(data))
	for _, m := range data {
		results = append(results, mapOne(m))
	}
	return results
}

// mapOne converts a single Jikan resource. Jikan scores are already 0-10,
// so no rescaling happens here.
func mapOne(m Manga) domain.SeriesResult {
	rawType := ""
	if m.Type != nil {
		rawType = *m.Type
	}

	genres := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		genres = append(genres, g.Name)
	}

	return domain.SeriesResult{
		ExternalID:   m.MalID,
		Title:        m.Title,
		Type:         domain.ParseSeriesType(rawType),
		ChapterCount: m.Chapters,
		Score:        m.Score,
		Synopsis:     m.Synopsis,
		Genres:       genres,
		CoverURL:     coverURL(m.Images),
		Source:       ProviderName,
	}
}

// coverURL prefers the large webp variant and falls back through the
// remaining variants.
func coverURL(img Images) string {
	for _, u := range []string{
		img.WebP.LargeImageURL,
		img.WebP.ImageURL,
		img.JPG.LargeImageURL,
		img.JPG.ImageURL,
	} {
		if u != "" {
			return u
		}
	}
	return ""
}
