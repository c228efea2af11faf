package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/internal/presentation/tui"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/runner"
)

// RunOptions contains the configuration specific to the run command.
type RunOptions struct {
	SessionID string
	Fresh     bool
	JSON      bool

	// OfferingID enables order submission to the partner backend after the questionnaire.
	OfferingID string

	Stdin  io.Reader
	Stdout io.Writer
}

// Run walks the questionnaire in the terminal.
func Run(ctx context.Context, cfg Config, opts RunOptions) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	logger := createLogger(cfg.Debug)
	interactive := !opts.JSON && tui.IsTerminal(os.Stdout) && opts.Stdout == io.Writer(os.Stdout)

	if interactive {
		tui.PrintBanner(opts.Stdout, intake.Version)
	}

	engine, err := createEngine(ctx, cfg, logger, domain.LifecycleHooks{})
	if err != nil {
		return err
	}

	var store *persistence
	if opts.SessionID != "" {
		store, err = openPersistence(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		if opts.Fresh {
			if err := store.Store.Delete(ctx, opts.SessionID); err != nil {
				return fmt.Errorf("failed to reset session: %w", err)
			}
		}
	}

	runnerOpts := []runner.Option{runner.WithLogger(logger)}
	if store != nil {
		runnerOpts = append(runnerOpts, runner.WithStore(store.Store), runner.WithSessionID(opts.SessionID))
	}
	if opts.JSON {
		runnerOpts = append(runnerOpts, runner.WithInputHandler(runner.NewJSONHandler(opts.Stdin, opts.Stdout)))
	} else {
		var handlerOpts []runner.TextHandlerOption
		if interactive {
			handlerOpts = append(handlerOpts, runner.WithTextHandlerRenderer(tui.NewRenderer()))
		}
		runnerOpts = append(runnerOpts, runner.WithInputHandler(runner.NewTextHandler(opts.Stdin, opts.Stdout, handlerOpts...)))
	}
	if opts.OfferingID != "" {
		if cfg.PartnerURL == "" {
			return fmt.Errorf("an offering requires a partner URL")
		}
		client, err := newPartnerClient(cfg, logger)
		if err != nil {
			return err
		}
		runnerOpts = append(runnerOpts, runner.WithOrderSubmitter(client, domain.Order{OfferingID: opts.OfferingID}))
	}

	res, err := runner.NewRunner(runnerOpts...).Run(ctx, engine, nil)
	if err != nil {
		return handleExecutionError(err)
	}

	if !opts.JSON {
		switch {
		case res.Submitted:
			printSystemMessage(opts.Stdout, "Questionnaire submitted.")
		case opts.SessionID != "":
			printSystemMessage(opts.Stdout, "Progress saved in session '%s'.", opts.SessionID)
		default:
			printSystemMessage(opts.Stdout, "Questionnaire left unfinished.")
		}
	}
	return nil
}
