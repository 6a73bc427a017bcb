package rituals

import "errors"

var (
	ErrNotFound     = errors.New("ritual not found")
	ErrInvalidInput = errors.New("invalid ritual")
	ErrSlugTaken    = errors.New("slug already in use")
)
