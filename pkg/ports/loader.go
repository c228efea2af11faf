package ports

import (
	"context"

	"github.com/aretw0/intake/pkg/domain"
)

// DefinitionLoader retrieves the question definitions for a questionnaire.
// The meaning of ref is adapter specific: a file path, a repository path,
// or a partner session key.
type DefinitionLoader interface {
	// Load returns the definitions in the order the engine should present them.
	Load(ctx context.Context, ref string) ([]domain.Question, error)
}
