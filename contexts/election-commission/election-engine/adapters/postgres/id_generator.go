package postgresadapter

import (
	"context"

	"github.com/google/uuid"
)

// UUIDGenerator issues store-generated surrogate keys.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
