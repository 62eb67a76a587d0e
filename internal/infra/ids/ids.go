// Package ids generates task identifiers.
package ids

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/runoshun/todo/internal/domain"
)

// Ensure Generator implements domain.IDGenerator.
var _ domain.IDGenerator = Generator{}

// Generator produces random (version 4) UUIDs.
type Generator struct{}

// NewID returns a new random id. If the system random source fails it falls
// back to a nanosecond timestamp, which is still unique for a single user.
func (Generator) NewID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return id.String()
}
