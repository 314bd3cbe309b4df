package store

import (
	"log/slog"

	"mangatrack/internal/adapter"
	"mangatrack/internal/domain"
)

// Open selects the store backend from config: the shared Redis library
// when the account is durable (named, with a sync URL), the local BoltDB
// file otherwise.
func Open(cfg *adapter.Config, logger *slog.Logger) (domain.Store, error) {
	if cfg.Account.HasDurableIdentity() {
		return NewRedisStore(cfg.Account.SyncURL, cfg.Account.Username, logger)
	}
	return NewBoltStore(cfg.Storage.DataDir)
}
