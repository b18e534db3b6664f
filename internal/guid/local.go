package guid

import (
	"context"

	"github.com/google/uuid"

	"github.com/thiri-win/helix/internal/service"
)

// LocalSource generates identifiers locally. It never fails.
type LocalSource struct{}

// NewLocalSource creates a local random identifier source.
func NewLocalSource() *LocalSource {
	return &LocalSource{}
}

// Generate returns a new random UUID v4.
func (s *LocalSource) Generate(_ context.Context) (string, service.IdentifierOrigin, error) {
	return uuid.NewString(), service.OriginLocalFallback, nil
}
