package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/intake/pkg/domain"
)

// LoggingHooks returns hooks that write one debug line per lifecycle event.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnAnswer: func(ctx context.Context, e *domain.AnswerEvent) {
			logger.DebugContext(ctx, "answer recorded",
				"session_id", e.SessionID,
				"question_id", e.QuestionID,
				"changed", e.Changed,
			)
		},
		OnVisibilityChange: func(ctx context.Context, e *domain.VisibilityEvent) {
			logger.DebugContext(ctx, "visibility changed",
				"session_id", e.SessionID,
				"shown", e.Shown,
				"hidden", e.Hidden,
				"initial", e.Initial,
			)
		},
		OnSubmit: func(ctx context.Context, e *domain.SubmitEvent) {
			logger.InfoContext(ctx, "questionnaire submitted",
				"session_id", e.SessionID,
				"answers", e.AnswerCount,
			)
		},
	}
}
