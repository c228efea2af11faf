package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/session"
	"github.com/go-chi/cors"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"
)

// QuestionnaireURI is the resource exposing the loaded definitions.
const QuestionnaireURI = "intake://questionnaire"

// Engine defines what the MCP server needs from intake.Engine.
type Engine interface {
	Questions() []domain.Question
	Start(ctx context.Context, sessionID string) (*domain.State, error)
	Refresh(state *domain.State) (*domain.State, error)
	Record(ctx context.Context, state *domain.State, questionID string, answer domain.Answer) (*domain.State, error)
	Select(ctx context.Context, state *domain.State, questionID, value string) (*domain.State, error)
	Deselect(ctx context.Context, state *domain.State, questionID, value string) (*domain.State, error)
	Submit(ctx context.Context, state *domain.State) (*domain.State, domain.Payload, error)
	View(state *domain.State) (*domain.View, error)
}

// SubmitResponse is the structured result of the submit tool.
type SubmitResponse struct {
	Payload domain.Payload `json:"payload" jsonschema_description:"The submitted answers by question ID"`
	View    *domain.View   `json:"view" jsonschema_description:"The final session view"`
}

// Server exposes questionnaire sessions as MCP tools.
type Server struct {
	engine    Engine
	sessions  *session.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		sessions:  sessions,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("intake-mcp", strings.TrimSpace(intake.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is canceled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	allowAll := cors.AllowAll().Handler
	mux := http.NewServeMux()
	mux.Handle("/sse", allowAll(sseServer.SSEHandler()))
	mux.Handle("/message", allowAll(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Start a questionnaire session, or resume it if the ID already exists. Returns the current view."),
		mcp.WithString("session_id", mcp.Description("Session ID (optional, generated when omitted)")),
		mcp.WithOutputSchema[domain.View](),
	), mcp.NewStructuredToolHandler(s.handleStartSession))

	s.mcpServer.AddTool(mcp.NewTool("record_answer",
		mcp.WithDescription("Record the answer to a question. Use 'answer' for single-choice and free-text questions, 'values' for multi-choice."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("question_id", mcp.Required(), mcp.Description("Question ID")),
		mcp.WithString("answer", mcp.Description("Scalar answer")),
		mcp.WithString("values", mcp.Description("JSON array of selected option values")),
		mcp.WithOutputSchema[domain.View](),
	), mcp.NewStructuredToolHandler(s.handleRecordAnswer))

	s.mcpServer.AddTool(mcp.NewTool("select_option",
		mcp.WithDescription("Toggle one option of a choice question. Exclusive options clear the others."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("question_id", mcp.Required(), mcp.Description("Question ID")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Option value")),
		mcp.WithBoolean("deselect", mcp.Description("Remove the option instead of adding it")),
		mcp.WithOutputSchema[domain.View](),
	), mcp.NewStructuredToolHandler(s.handleSelectOption))

	s.mcpServer.AddTool(mcp.NewTool("get_view",
		mcp.WithDescription("Get the visible questions, answers and progress of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[domain.View](),
	), mcp.NewStructuredToolHandler(s.handleGetView))

	s.mcpServer.AddTool(mcp.NewTool("submit",
		mcp.WithDescription("Submit a complete questionnaire. Fails while required visible questions are unanswered."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[SubmitResponse](),
	), mcp.NewStructuredToolHandler(s.handleSubmit))
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(QuestionnaireURI, "Questionnaire Definition",
		mcp.WithMIMEType("application/json"),
	), s.readQuestionnaire)
}

func (s *Server) readQuestionnaire(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(s.engine.Questions())
	if err != nil {
		return nil, fmt.Errorf("failed to encode questionnaire: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      QuestionnaireURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
