package domain

import "errors"

var (
	// ErrCatalogUnavailable is returned when the catalog source cannot be fetched or parsed
	ErrCatalogUnavailable = errors.New("cannot load catalog data")

	// ErrSheetFetchFailure is returned when the spreadsheet export request fails
	ErrSheetFetchFailure = errors.New("spreadsheet export request failed")

	// ErrMalformedCatalog is returned when the export is not a usable table
	ErrMalformedCatalog = errors.New("malformed catalog table")

	// ErrDeviceNotFound is returned when a named device is not in the catalog
	ErrDeviceNotFound = errors.New("device not found in catalog")

	// ErrUnknownPersona is returned when a persona name has no weight preset
	ErrUnknownPersona = errors.New("unknown persona")

	// ErrUnknownJudge is returned when a judge criterion has no weight preset
	ErrUnknownJudge = errors.New("unknown judge criterion")

	// ErrUnknownImportance is returned when an importance label cannot be mapped to a weight
	ErrUnknownImportance = errors.New("unknown importance level")

	// ErrInvalidWeights is returned when a weight vector contains a negative or non-finite weight
	ErrInvalidWeights = errors.New("weights must be non-negative numbers")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrNoMatches is returned when an operation needs a ranking winner but no device passed the filters
	ErrNoMatches = errors.New("no devices match the filters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
