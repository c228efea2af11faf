package loam

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/aretw0/intake/internal/dto"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/loam"
)

// Loader adapts a Loam repository to the DefinitionLoader interface.
// Every document in the repository (or in the sub-directory named by ref) is one question.
type Loader struct {
	Repo *loam.TypedRepository[QuestionMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[QuestionMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Load reads the questions under ref ("" for the whole repository), sorted by order.
func (l *Loader) Load(ctx context.Context, ref string) ([]domain.Question, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	prefix := strings.Trim(filepath.ToSlash(ref), "/")
	if prefix != "" {
		prefix += "/"
	}

	seen := make(map[string]string)
	var questions []domain.Question
	for _, doc := range docs {
		docPath := filepath.ToSlash(doc.ID)
		if prefix != "" && !strings.HasPrefix(docPath, prefix) {
			continue
		}

		meta := doc.Data
		id := meta.ID
		if id == "" {
			id = path.Base(docPath)
		}
		id = trimExtension(id)
		meta.ID = id

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID

		if meta.Description == "" {
			meta.Description = strings.TrimSpace(doc.Content)
		}
		questions = append(questions, meta.ToDomain())
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no question documents under %q", domain.ErrQuestionnaireNotFound, ref)
	}

	dto.SortByOrder(questions)
	return questions, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
