package client

import "fmt"

// AuthenticationError indicates the login exchange was rejected.  It is fatal;
// the operator re-runs the command with working credentials.
type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// RetrievalError indicates a sample listing page could not be fetched after
// the bounded number of attempts.  The retrieval is all-or-nothing, so any
// pages already collected are discarded with it.
type RetrievalError struct {
	Page int
	Err  error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("failed to retrieve sample page %d: %v", e.Page, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}
