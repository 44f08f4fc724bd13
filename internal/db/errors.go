package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrIndexNotFound = errors.New("db: index not found")
)

// Op constants name backend operations for error context.
const (
	OpSearch      = "FT.SEARCH"
	OpCreateIndex = "FT.CREATE"
	OpHGetAll     = "HGETALL"
	OpLRange      = "LRANGE"
	OpZRange      = "ZRANGE"
	OpSCard       = "SCARD"
	OpPing        = "PING"
	OpBleveSearch = "bleve.Search"
	OpBleveIndex  = "bleve.Index"
	OpBleveOpen   = "bleve.Open"
	OpQuery       = "pg.Query"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
