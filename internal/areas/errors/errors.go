package errors

import "errors"

var ErrNotFound = errors.New("area not found")
