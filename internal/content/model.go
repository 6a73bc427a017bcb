package content

import (
	"encoding/json"
	"errors"
	"regexp"
	"time"
)

var (
	ErrNotFound     = errors.New("content block not found")
	ErrInvalidInput = errors.New("invalid content block")
)

const maxBodyBytes = 64 << 10

var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{0,63}$`)

// Block is a keyed piece of site copy. Body is arbitrary JSON so pages can
// store structured sections as well as plain strings.
type Block struct {
	Key       string          `json:"key"`
	Body      json.RawMessage `json:"body"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ValidKey reports whether key is a lowercase dotted identifier such as "home.hero".
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}
