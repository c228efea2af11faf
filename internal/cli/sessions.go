package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// ListSessions writes the IDs of the stored sessions.
func ListSessions(ctx context.Context, cfg Config, w io.Writer) error {
	p, err := openPersistence(ctx, cfg, createLogger(cfg.Debug))
	if err != nil {
		return err
	}
	defer p.Close()

	ids, err := p.Store.List(ctx)
	if err != nil {
		return fmt.Errorf("error listing sessions: %w", err)
	}
	if len(ids) == 0 {
		fmt.Fprintln(w, "No sessions found.")
		return nil
	}
	for _, id := range ids {
		fmt.Fprintln(w, "- "+id)
	}
	return nil
}

// InspectSession pretty-prints a stored session.
func InspectSession(ctx context.Context, cfg Config, id string, w io.Writer) error {
	p, err := openPersistence(ctx, cfg, createLogger(cfg.Debug))
	if err != nil {
		return err
	}
	defer p.Close()

	state, err := p.Store.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("error loading session '%s': %w", id, err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling state: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// RemoveSessions deletes the given sessions, reporting each one.
func RemoveSessions(ctx context.Context, cfg Config, ids []string, w io.Writer) error {
	p, err := openPersistence(ctx, cfg, createLogger(cfg.Debug))
	if err != nil {
		return err
	}
	defer p.Close()

	failed := 0
	for _, id := range ids {
		if err := p.Store.Delete(ctx, id); err != nil {
			fmt.Fprintf(w, "Error removing '%s': %v\n", id, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "Removed session '%s'\n", id)
	}
	if failed > 0 {
		return fmt.Errorf("failed to remove %d session(s)", failed)
	}
	return nil
}
