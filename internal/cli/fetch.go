package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/intake/pkg/adapters/partner"
	"github.com/aretw0/intake/pkg/domain"
	"gopkg.in/yaml.v3"
)

// exportedQuestionnaire is the file layout read back by the file loader.
type exportedQuestionnaire struct {
	ID        string            `yaml:"id"`
	Title     string            `yaml:"title,omitempty"`
	Questions []domain.Question `yaml:"questions"`
}

// Fetch downloads the questionnaire of a partner session and writes it to w as YAML,
// so it can be versioned and served from a file.
func Fetch(ctx context.Context, cfg Config, sid string, w io.Writer) error {
	if cfg.PartnerURL == "" {
		return fmt.Errorf("a partner URL is required")
	}
	logger := createLogger(cfg.Debug)
	client, err := newPartnerClient(cfg, logger)
	if err != nil {
		return err
	}

	session, err := client.FetchSession(ctx, sid)
	if err != nil {
		return err
	}
	if session.Questionnaire == nil {
		return fmt.Errorf("%w: session %q has no questionnaire", domain.ErrQuestionnaireNotFound, sid)
	}

	out := exportedQuestionnaire{
		ID:        session.Questionnaire.ID,
		Title:     session.Questionnaire.Name,
		Questions: partner.Convert(session.Questionnaire.Questions, logger),
	}
	if out.ID == "" {
		out.ID = sid
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode questionnaire: %w", err)
	}
	return enc.Close()
}
