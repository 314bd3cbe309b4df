package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrProviderUnavailable indicates a network failure or non-2xx status
	// from one catalog provider
	ErrProviderUnavailable = errors.New("provider is unavailable")

	// ErrMalformedResponse indicates a provider returned 2xx with an
	// unparseable body; treated the same as an unavailable provider
	ErrMalformedResponse = errors.New("provider returned a malformed response")

	// ErrNoResults indicates zero matches after full aggregation
	ErrNoResults = errors.New("no results found")

	// ErrSeriesNotFound indicates the requested library entry does not exist
	ErrSeriesNotFound = errors.New("series not found in library")

	// ErrDuplicateSeries indicates the title is already in the library
	ErrDuplicateSeries = errors.New("series is already in the library")

	// ErrCooldownActive indicates a manual update check was attempted too
	// soon after the previous one
	ErrCooldownActive = errors.New("manual update check is on cooldown")

	// ErrSyncDisabled indicates the update subsystem is disabled because the
	// session has no durable identity
	ErrSyncDisabled = errors.New("update checks require a signed-in account")

	// ErrStoreWrite indicates the persistence layer rejected a mutation;
	// the operation is retryable
	ErrStoreWrite = errors.New("library store write failed")

	// ErrUnknownProvider indicates a single-source search named a provider
	// that is not registered
	ErrUnknownProvider = errors.New("unknown provider")
)
