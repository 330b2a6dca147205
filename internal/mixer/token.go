package mixer

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/chrisdamba/freshmix/internal/models"
)

// TokenSource mints the per-instance tokens that tell repeated additions of
// the same ingredient apart.
type TokenSource interface {
	NewToken(id models.IngredientID) string
}

// UUIDTokens mints "<ingredient>-<uuid v4>". With 122 random bits the chance
// of any collision among n tokens is about n²/2¹²³.
type UUIDTokens struct{}

func (UUIDTokens) NewToken(id models.IngredientID) string {
	return string(id) + "-" + uuid.NewString()
}

// SequentialTokens mints "<ingredient>-<n>" from a process-local counter.
// Deterministic, so useful for tests and seeded simulations.
type SequentialTokens struct {
	next atomic.Uint64
}

func (s *SequentialTokens) NewToken(id models.IngredientID) string {
	return fmt.Sprintf("%s-%d", id, s.next.Add(1))
}
