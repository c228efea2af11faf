package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/runner"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mitchellh/mapstructure"
)

type toolArgs struct {
	SessionID  string `mapstructure:"session_id"`
	QuestionID string `mapstructure:"question_id"`
	Answer     string `mapstructure:"answer"`
	Values     string `mapstructure:"values"`
	Value      string `mapstructure:"value"`
	Deselect   bool   `mapstructure:"deselect"`
}

func decodeArgs(raw map[string]any, requireSession bool) (toolArgs, error) {
	var args toolArgs
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &args,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return args, err
	}
	if err := dec.Decode(raw); err != nil {
		return args, fmt.Errorf("invalid arguments: %w", err)
	}
	if requireSession && args.SessionID == "" {
		return args, fmt.Errorf("session_id is required")
	}
	return args, nil
}

func (s *Server) handleStartSession(ctx context.Context, request mcp.CallToolRequest, raw map[string]any) (domain.View, error) {
	args, err := decodeArgs(raw, false)
	if err != nil {
		return domain.View{}, err
	}
	if args.SessionID == "" {
		args.SessionID = uuid.NewString()
	}
	state, created, err := s.sessions.LoadOrStart(ctx, args.SessionID, s.engine.Start)
	if err != nil {
		return domain.View{}, fmt.Errorf("start failed: %w", err)
	}
	s.logger.Debug("MCP session ready", "session_id", args.SessionID, "created", created)
	return s.view(state)
}

func (s *Server) handleRecordAnswer(ctx context.Context, request mcp.CallToolRequest, raw map[string]any) (domain.View, error) {
	args, err := decodeArgs(raw, true)
	if err != nil {
		return domain.View{}, err
	}
	if args.QuestionID == "" {
		return domain.View{}, fmt.Errorf("question_id is required")
	}

	answer := domain.Scalar(args.Answer)
	if args.Values != "" {
		var values []string
		if err := json.Unmarshal([]byte(args.Values), &values); err != nil {
			return domain.View{}, fmt.Errorf("values must be a JSON array of strings: %w", err)
		}
		answer = domain.Multi(values...)
	}
	answer, err = runner.SanitizeAnswer(answer)
	if err != nil {
		s.logger.Warn("MCP record_answer: Input rejected", "err", err)
		return domain.View{}, fmt.Errorf("input rejected: %w", err)
	}

	return s.update(ctx, args.SessionID, func(ctx context.Context, state *domain.State) (*domain.State, error) {
		return s.engine.Record(ctx, state, args.QuestionID, answer)
	})
}

func (s *Server) handleSelectOption(ctx context.Context, request mcp.CallToolRequest, raw map[string]any) (domain.View, error) {
	args, err := decodeArgs(raw, true)
	if err != nil {
		return domain.View{}, err
	}
	if args.QuestionID == "" || args.Value == "" {
		return domain.View{}, fmt.Errorf("question_id and value are required")
	}

	op := s.engine.Select
	if args.Deselect {
		op = s.engine.Deselect
	}
	return s.update(ctx, args.SessionID, func(ctx context.Context, state *domain.State) (*domain.State, error) {
		return op(ctx, state, args.QuestionID, args.Value)
	})
}

func (s *Server) handleGetView(ctx context.Context, request mcp.CallToolRequest, raw map[string]any) (domain.View, error) {
	args, err := decodeArgs(raw, true)
	if err != nil {
		return domain.View{}, err
	}
	stored, err := s.sessions.Load(ctx, args.SessionID)
	if err != nil {
		return domain.View{}, err
	}
	state, err := s.engine.Refresh(stored)
	if err != nil {
		return domain.View{}, err
	}
	return s.view(state)
}

func (s *Server) handleSubmit(ctx context.Context, request mcp.CallToolRequest, raw map[string]any) (SubmitResponse, error) {
	args, err := decodeArgs(raw, true)
	if err != nil {
		return SubmitResponse{}, err
	}

	var payload domain.Payload
	state, err := s.sessions.Update(ctx, args.SessionID, func(ctx context.Context, stored *domain.State) (*domain.State, error) {
		current, err := s.engine.Refresh(stored)
		if err != nil {
			return nil, err
		}
		next, p, err := s.engine.Submit(ctx, current)
		if err != nil {
			return nil, err
		}
		payload = p
		return next, nil
	})
	if err != nil {
		return SubmitResponse{}, fmt.Errorf("submit failed: %w", err)
	}

	view, err := s.engine.View(state)
	if err != nil {
		return SubmitResponse{}, err
	}
	return SubmitResponse{Payload: payload, View: view}, nil
}

func (s *Server) update(ctx context.Context, sessionID string, op func(context.Context, *domain.State) (*domain.State, error)) (domain.View, error) {
	state, err := s.sessions.Update(ctx, sessionID, func(ctx context.Context, stored *domain.State) (*domain.State, error) {
		current, err := s.engine.Refresh(stored)
		if err != nil {
			return nil, err
		}
		return op(ctx, current)
	})
	if err != nil {
		return domain.View{}, err
	}
	return s.view(state)
}

func (s *Server) view(state *domain.State) (domain.View, error) {
	v, err := s.engine.View(state)
	if err != nil {
		return domain.View{}, err
	}
	return *v, nil
}
