package dashboard

import "errors"

// ErrInvalidForm is returned by Submit when a required field is missing or malformed.
var ErrInvalidForm = errors.New("please fill in all required fields")
