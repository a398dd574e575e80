package database

import "fmt"

// StoreInitError is returned when the database cannot be opened or its schema
// cannot be created. The process is expected to exit on it.
type StoreInitError struct {
	Op  string
	Err error
}

func (e *StoreInitError) Error() string {
	return fmt.Sprintf("initializing store: %s: %v", e.Op, e.Err)
}

func (e *StoreInitError) Unwrap() error {
	return e.Err
}

// QueryError wraps a failed statement. The query text is kept for the log and
// never sent to clients.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
