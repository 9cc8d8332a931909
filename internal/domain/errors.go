package domain

import "errors"

var ErrInvalidLimit = errors.New("limit out of range")
