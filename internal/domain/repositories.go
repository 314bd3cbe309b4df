package domain

import "context"

// Provider is an external catalog adapter. Implementations issue exactly one
// outbound request per call, confine their provider-specific response shapes
// to their own package, and never panic across this boundary: failures come
// back as ErrProviderUnavailable or ErrMalformedResponse, partial data maps
// to nil fields rather than errors.
type Provider interface {
	// Name returns the provider's stable identifier (e.g. "jikan")
	Name() string

	// Search returns zero or more normalized results for a title query
	Search(ctx context.Context, query string) ([]SeriesResult, error)
}

// IDLookupProvider is implemented by providers whose id space supports a
// direct by-id lookup (the numeric-id aggregator).
type IDLookupProvider interface {
	Provider

	// FetchByID returns the series with the given numeric id, or nil when
	// the provider does not know it
	FetchByID(ctx context.Context, id int) (*SeriesResult, error)
}

// Store is the persistence boundary for the library. The local variant is a
// file-backed KV store; the cloud variant is a per-account document
// collection. Mutations against a single entry are atomic; there is no
// cross-entry transaction.
type Store interface {
	// Entries returns all tracked titles
	Entries() ([]LibraryEntry, error)

	// Get returns a single entry, ErrSeriesNotFound when absent
	Get(id string) (LibraryEntry, error)

	// Put upserts an entry
	Put(entry LibraryEntry) error

	// Patch applies fn to the stored entry under the store's single-entry
	// atomicity guarantee. ErrSeriesNotFound when absent.
	Patch(id string, fn func(*LibraryEntry)) error

	// Remove deletes an entry, ErrSeriesNotFound when absent
	Remove(id string) error

	// Notifications returns the persisted log, newest first
	Notifications() ([]Notification, error)

	// AppendNotification appends to the log, evicting beyond MaxNotifications
	AppendNotification(n Notification) error

	// ClearNotifications empties the log
	ClearNotifications() error

	// Meta reads a bookkeeping value ("last_checked", "last_manual_check")
	Meta(key string) (string, bool)

	// SetMeta writes a bookkeeping value
	SetMeta(key, value string) error

	Close() error
}

// Watchable is implemented by stores that can push change events (the cloud
// variant); the local variant is polled instead.
type Watchable interface {
	// Subscribe registers a callback invoked with the full entry set after
	// every remote change. The returned func cancels the subscription.
	Subscribe(fn func([]LibraryEntry)) (cancel func())
}

// Identity reports whether this session is backed by a durable account. The
// update subsystem is disabled entirely for anonymous local-only sessions
// when sync gating is on.
type Identity interface {
	HasDurableIdentity() bool
}
