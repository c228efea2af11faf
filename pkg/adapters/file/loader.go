package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/intake/internal/dto"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

var definitionExtensions = []string{".yaml", ".yml", ".json"}

// Loader implements ports.DefinitionLoader over YAML or JSON questionnaire files.
//
// A file holds either a questionnaire object with a "questions" list or a bare list
// of questions. Questions are returned sorted by their "order" field.
type Loader struct {
	// Dir is prepended to relative references. Empty means the working directory.
	Dir string
}

// NewLoader creates a Loader resolving references against dir.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

// Load reads the questionnaire referenced by ref. The extension may be omitted.
func (l *Loader) Load(ctx context.Context, ref string) ([]domain.Question, error) {
	path, err := l.resolve(ref)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read questionnaire %s: %w", path, err)
	}

	spec, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode questionnaire %s: %w", path, err)
	}

	questions := make([]domain.Question, 0, len(spec.Questions))
	for _, qs := range spec.Questions {
		questions = append(questions, qs.ToDomain())
	}
	dto.SortByOrder(questions)
	return questions, nil
}

func (l *Loader) resolve(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("%w: empty reference", domain.ErrQuestionnaireNotFound)
	}
	path := ref
	if l.Dir != "" && !filepath.IsAbs(ref) {
		path = filepath.Join(l.Dir, ref)
	}

	if filepath.Ext(path) != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	for _, ext := range definitionExtensions {
		candidate := path + ext
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("%w: %s", domain.ErrQuestionnaireNotFound, ref)
}

// Decode parses a YAML or JSON questionnaire document.
func Decode(data []byte) (*dto.QuestionnaireSpec, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	spec := &dto.QuestionnaireSpec{}
	switch v := raw.(type) {
	case []any:
		if err := decodeStrict(v, &spec.Questions); err != nil {
			return nil, err
		}
	case map[string]any:
		if err := decodeStrict(v, spec); err != nil {
			return nil, err
		}
	case nil:
		return nil, errors.New("empty document")
	default:
		return nil, fmt.Errorf("expected a mapping or a list at the top level, got %T", raw)
	}
	return spec, nil
}

func decodeStrict(input, output any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           output,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
