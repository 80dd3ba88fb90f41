// Package service provides business logic for the application.
package service

import "errors"

// Service errors. Callers match them with errors.Is; details are wrapped
// around them with fmt.Errorf.
var (
	ErrInvalidOwner        = errors.New("invalid member id")
	ErrNotFound            = errors.New("not found")
	ErrDuplicateFolderName = errors.New("duplicate folder name")
	ErrOwnershipMismatch   = errors.New("resource belongs to another user")
	ErrInvalidArgument     = errors.New("invalid argument")
)
