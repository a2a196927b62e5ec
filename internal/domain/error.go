package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrOperationFailed    = errors.New("operation failed")
	ErrInvalidExecContext = errors.New("invalid execution context")

	// Payment lifecycle
	ErrGatewayRejected    = errors.New("payment gateway rejected the request")
	ErrMissingRedirectURL = errors.New("gateway returned no redirect url")
	ErrInvalidTransition  = errors.New("invalid transaction status transition")
	ErrLockNotAcquired    = errors.New("could not acquire lock")
)
