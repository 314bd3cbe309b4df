package mangadex

import (
	"fmt"
	"strconv"

	"mangatrack/internal/domain"
)

// mapSeries converts MangaDex manga resources to normalized results.
func mapSeries(data []Manga) []domain.SeriesResult {
	results := make([]domain.SeriesResult, 0, len(data))
	for _, m := range data {
		results = append(results, mapOne(m))
	}
	return results
}

func mapOne(m Manga) domain.SeriesResult {
	var chapters *float64
	if m.Attributes.LastChapter != nil {
		if n, err := strconv.ParseFloat(*m.Attributes.LastChapter, 64); err == nil {
			chapters = &n
		}
	}

	var synopsis *string
	if desc := pickLocalized(m.Attributes.Description); desc != "" {
		synopsis = &desc
	}

	rawType := m.Type
	if m.Attributes.PublicationDemographic != nil && *m.Attributes.PublicationDemographic != "" {
		rawType = *m.Attributes.PublicationDemographic
	}

	return domain.SeriesResult{
		ExternalID:   0, // UUID id space; identity falls back to the title slug
		Title:        pickLocalized(m.Attributes.Title),
		Type:         domain.ParseSeriesType(rawType),
		ChapterCount: chapters,
		Score:        nil, // not present in MangaDex search responses
		Synopsis:     synopsis,
		Genres:       genreTags(m.Attributes.Tags),
		CoverURL:     coverURL(m),
		Source:       ProviderName,
	}
}

// pickLocalized prefers the English variant of a per-language map and falls
// back to the first non-empty value. Map iteration order is not stable, but
// the fallback only fires for titles without an English variant at all.
func pickLocalized(values map[string]string) string {
	if v := values["en"]; v != "" {
		return v
	}
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// genreTags keeps only tags in the "genre" group, dropping format/theme/
// content tags that other providers do not report.
func genreTags(tags []Tag) []string {
	genres := make([]string, 0, len(tags))
	for _, t := range tags {
		if t.Attributes.Group != "genre" {
			continue
		}
		if name := pickLocalized(t.Attributes.Name); name != "" {
			genres = append(genres, name)
		}
	}
	return genres
}

// coverURL builds the 256px thumbnail URL from the cover_art relationship,
// or returns empty when the relationship or its file name is missing.
func coverURL(m Manga) string {
	for _, rel := range m.Relationships {
		if rel.Type != "cover_art" {
			continue
		}
		fileName, _ := rel.Attributes["fileName"].(string)
		if fileName == "" {
			return ""
		}
		return fmt.Sprintf("%s/%s/%s.256.jpg", coverBaseURL, m.ID, fileName)
	}
	return ""
}
