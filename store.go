package fattybrewing

import (
	"context"

	"github.com/google/uuid"
)

// Store persists containers. Saving a container without an id inserts it
// and assigns one; saving one with an id updates it in place.
type Store interface {
	Save(ctx context.Context, c *Container) (string, error)
	Load(ctx context.Context, id string) (*Container, error)
	List(ctx context.Context) ([]State, error)
	// Find returns containers whose name contains pattern, ignoring case.
	Find(ctx context.Context, pattern string) ([]State, error)
	Delete(ctx context.Context, id string) error
}

func GenerateUUID() string {
	return uuid.New().String()
}
