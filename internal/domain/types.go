package domain

import "strings"

// SeriesType distinguishes publication formats. Stored as its display string.
type SeriesType string

const (
	TypeManga   SeriesType = "Manga"
	TypeManhwa  SeriesType = "Manhwa"
	TypeWebtoon SeriesType = "Webtoon"
	TypeNovel   SeriesType = "Novel"
	TypeOther   SeriesType = "Other"
)

// ParseSeriesType normalizes a provider's free-text type field into a
// SeriesType. Providers disagree wildly here ("Manhwa", "manhua", "MANGA",
// "one_shot", demographic labels), so matching is case-insensitive and
// substring based. Anything unrecognized maps to TypeOther.
func ParseSeriesType(raw string) SeriesType {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "manhwa"), strings.Contains(s, "manhua"):
		return TypeManhwa
	case strings.Contains(s, "webtoon"):
		return TypeWebtoon
	case strings.Contains(s, "novel"):
		return TypeNovel
	case strings.Contains(s, "manga"):
		return TypeManga
	default:
		return TypeOther
	}
}

// ReadingStatus represents where a tracked title sits in the user's list.
type ReadingStatus string

const (
	StatusReading    ReadingStatus = "Reading"
	StatusPlanToRead ReadingStatus = "PlanToRead"
	StatusCompleted  ReadingStatus = "Completed"
)

// ParseReadingStatus accepts the short forms used on the command line.
func ParseReadingStatus(raw string) (ReadingStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "reading":
		return StatusReading, true
	case "plan", "plantoread", "plan-to-read":
		return StatusPlanToRead, true
	case "completed", "complete", "done":
		return StatusCompleted, true
	default:
		return "", false
	}
}

// String returns the status in a human-readable form.
func (s ReadingStatus) String() string {
	if s == StatusPlanToRead {
		return "Plan to Read"
	}
	return string(s)
}
