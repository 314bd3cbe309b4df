// Package provider wires the individual catalog adapters into the fixed
// priority ordering the rest of the system depends on.
package provider

import (
	"log/slog"

	"mangatrack/internal/domain"
	"mangatrack/internal/provider/anilist"
	"mangatrack/internal/provider/jikan"
	"mangatrack/internal/provider/kitsu"
	"mangatrack/internal/provider/mangadex"
)

// Priority is the fixed provider ordering used for merge tie-breaking in the
// search aggregator and as the title-search order in the update cascade.
// Jikan leads because it issues stable numeric ids; MangaDex tracks chapter
// releases fastest; Kitsu and AniList round out coverage. Network completion
// timing never influences this order.
var Priority = []string{
	jikan.ProviderName,
	mangadex.ProviderName,
	kitsu.ProviderName,
	anilist.ProviderName,
}

// Config carries per-adapter base URL overrides. Empty fields use the
// public endpoints.
type Config struct {
	JikanURL    string
	MangadexURL string
	KitsuURL    string
	AniListURL  string
}

// New returns the adapter set in priority order.
func New(cfg Config, logger *slog.Logger) []domain.Provider {
	return []domain.Provider{
		jikan.New(cfg.JikanURL, logger),
		mangadex.New(cfg.MangadexURL, logger),
		kitsu.New(cfg.KitsuURL, logger),
		anilist.New(cfg.AniListURL, logger),
	}
}

// Defaults returns the production adapter set pointed at the public
// endpoints.
func Defaults(logger *slog.Logger) []domain.Provider {
	return New(Config{}, logger)
}
