package segmentd

import "github.com/kailas-cloud/segmentd/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound             = domain.ErrNotFound
	ErrSearchUnavailable    = domain.ErrSearchUnavailable
	ErrDirectoryUnavailable = domain.ErrDirectoryUnavailable
	ErrInvalidRange         = domain.ErrInvalidRange
)
