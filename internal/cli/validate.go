package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/intake/internal/validator"
	"github.com/aretw0/intake/pkg/domain"
)

// ErrValidationWarnings is returned by Validate in strict mode when warnings were found.
var ErrValidationWarnings = errors.New("questionnaire has warnings")

// Validate loads the questionnaire, reports definition problems to w and
// returns an error for anything the engine rejects.
func Validate(ctx context.Context, cfg Config, strict bool, w io.Writer) error {
	engine, err := createEngine(ctx, cfg, createLogger(cfg.Debug), domain.LifecycleHooks{})
	if err != nil {
		return err
	}

	questions := engine.Questions()
	issues := validator.Check(questions)

	conditional := 0
	for _, q := range questions {
		if !q.Unconditional() {
			conditional++
		}
	}

	name := engine.Name
	if name == "" {
		name = cfg.Source
	}
	fmt.Fprintf(w, "Questionnaire %q: %d questions (%d conditional)\n", name, len(questions), conditional)
	for _, issue := range issues {
		fmt.Fprintf(w, "warning: %s\n", issue)
	}

	if strict && len(issues) > 0 {
		return fmt.Errorf("%w: %d found", ErrValidationWarnings, len(issues))
	}
	return nil
}
