package models

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrEmailExists     = errors.New("email already exists")
	ErrNothingToUpdate = errors.New("nothing to update")
)
