package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mangatrack/internal/domain"
)

func TestParseSeriesType(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want domain.SeriesType
	}{
		{name: "plain manga", raw: "Manga", want: domain.TypeManga},
		{name: "uppercase manga", raw: "MANGA", want: domain.TypeManga},
		{name: "korean manhwa", raw: "manhwa", want: domain.TypeManhwa},
		{name: "chinese manhua folds into manhwa", raw: "Manhua", want: domain.TypeManhwa},
		{name: "webtoon", raw: "Webtoon", want: domain.TypeWebtoon},
		{name: "light novel", raw: "Light Novel", want: domain.TypeNovel},
		{name: "kitsu novel variant", raw: "novel", want: domain.TypeNovel},
		{name: "one shot is other", raw: "one_shot", want: domain.TypeOther},
		{name: "doujinshi is other", raw: "Doujinshi", want: domain.TypeOther},
		{name: "anilist format", raw: "MANGA", want: domain.TypeManga},
		{name: "anilist one shot", raw: "ONE_SHOT", want: domain.TypeOther},
		{name: "empty", raw: "", want: domain.TypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ParseSeriesType(tt.raw))
		})
	}
}

func TestParseReadingStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.ReadingStatus
		ok   bool
	}{
		{raw: "reading", want: domain.StatusReading, ok: true},
		{raw: "Reading", want: domain.StatusReading, ok: true},
		{raw: "plan", want: domain.StatusPlanToRead, ok: true},
		{raw: "plantoread", want: domain.StatusPlanToRead, ok: true},
		{raw: "plan-to-read", want: domain.StatusPlanToRead, ok: true},
		{raw: "completed", want: domain.StatusCompleted, ok: true},
		{raw: "done", want: domain.StatusCompleted, ok: true},
		{raw: " reading ", want: domain.StatusReading, ok: true},
		{raw: "dropped", ok: false},
		{raw: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := domain.ParseReadingStatus(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestReadingStatusString(t *testing.T) {
	assert.Equal(t, "Reading", domain.StatusReading.String())
	assert.Equal(t, "Plan to Read", domain.StatusPlanToRead.String())
	assert.Equal(t, "Completed", domain.StatusCompleted.String())
}
