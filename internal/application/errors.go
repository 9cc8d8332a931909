package application

import (
	"errors"
	"fmt"

	"pricetrack-service/internal/domain"
)

var ErrNotFound = errors.New("not found")
var ErrBadRequest = errors.New("bad request")

// ErrInvalidLimit matches both ErrBadRequest and domain.ErrInvalidLimit.
var ErrInvalidLimit = fmt.Errorf("%w: %w", ErrBadRequest, domain.ErrInvalidLimit)
