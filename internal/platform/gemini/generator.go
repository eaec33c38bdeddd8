package gemini

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/devKanyanta/sambilila-worker/internal/config"
	"github.com/devKanyanta/sambilila-worker/internal/domain"
	"github.com/devKanyanta/sambilila-worker/internal/generation"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

// Default generation parameters when a job carries none.
const (
	defaultCardCount     = 12
	defaultQuestionCount = 10
	defaultDifficulty    = "mixed"
)

// jsonMIMEType asks the model for raw JSON output rather than prose.
const jsonMIMEType = "application/json"

// promptData is the input for both prompt templates.
type promptData struct {
	Text          string
	CardCount     int
	QuestionCount int
	Difficulty    string
}

// jobParams is the subset of job parameters the generator understands.
// Unknown fields are ignored, keeping parameters opaque to the core.
type jobParams struct {
	CardCount     int    `json:"card_count"`
	QuestionCount int    `json:"question_count"`
	Difficulty    string `json:"difficulty"`
}

// Generator implements generation.FlashcardGenerator and
// generation.QuizGenerator using the Gemini API.
type Generator struct {
	logger *slog.Logger
	config config.LLMConfig
	client *genai.Client
	model  string

	flashcardTmpl   *template.Template
	quizTmpl        *template.Template
	flashcardSchema *schemaValidator
	quizSchema      *schemaValidator
}

// NewGenerator creates a Gemini-backed generator.
func NewGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	flashcardTmpl, err := template.ParseFS(promptFS, "prompts/flashcards.tmpl")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse flashcard prompt template: %v",
			generation.ErrInvalidConfig, err)
	}
	quizTmpl, err := template.ParseFS(promptFS, "prompts/quiz.tmpl")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse quiz prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	flashcardSchema, err := newSchemaValidator("flashcards.schema.json")
	if err != nil {
		return nil, err
	}
	quizSchema, err := newSchemaValidator("quiz.schema.json")
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &Generator{
		logger:          logger,
		config:          cfg,
		client:          client,
		model:           cfg.ModelName,
		flashcardTmpl:   flashcardTmpl,
		quizTmpl:        quizTmpl,
		flashcardSchema: flashcardSchema,
		quizSchema:      quizSchema,
	}, nil
}

// GenerateFlashcards creates a flashcard set draft from study text.
func (g *Generator) GenerateFlashcards(
	ctx context.Context,
	text string,
	params json.RawMessage,
) (*domain.FlashcardSetDraft, error) {
	prompt, err := g.renderPrompt(g.flashcardTmpl, text, params)
	if err != nil {
		return nil, err
	}

	raw, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return parseFlashcardResponse(g.flashcardSchema, raw)
}

// GenerateQuiz creates a quiz draft from study text.
func (g *Generator) GenerateQuiz(
	ctx context.Context,
	text string,
	params json.RawMessage,
) (*domain.QuizDraft, error) {
	prompt, err := g.renderPrompt(g.quizTmpl, text, params)
	if err != nil {
		return nil, err
	}

	raw, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return parseQuizResponse(g.quizSchema, raw)
}

// renderPrompt executes a prompt template with the study text and the
// job's generation parameters.
func (g *Generator) renderPrompt(
	tmpl *template.Template,
	text string,
	params json.RawMessage,
) (string, error) {
	if text == "" {
		return "", fmt.Errorf("%w: study text cannot be empty", generation.ErrGenerationFailed)
	}

	data := promptData{
		Text:          text,
		CardCount:     defaultCardCount,
		QuestionCount: defaultQuestionCount,
		Difficulty:    defaultDifficulty,
	}
	if len(params) > 0 {
		var p jobParams
		// Bad parameters are not fatal; the defaults apply.
		if err := json.Unmarshal(params, &p); err != nil {
			g.logger.Warn("ignoring malformed job parameters", "error", err)
		} else {
			if p.CardCount > 0 {
				data.CardCount = p.CardCount
			}
			if p.QuestionCount > 0 {
				data.QuestionCount = p.QuestionCount
			}
			if p.Difficulty != "" {
				data.Difficulty = p.Difficulty
			}
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: failed to execute prompt template: %v",
			generation.ErrGenerationFailed, err)
	}
	return buf.String(), nil
}

// callWithRetry makes the Gemini API call with exponential backoff and
// jitter for transient provider errors. Permanent errors (blocked
// content, malformed responses) are returned immediately.
func (g *Generator) callWithRetry(ctx context.Context, prompt string) ([]byte, error) {
	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 3
	}
	baseDelaySeconds := g.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		g.logger.DebugContext(ctx, "calling Gemini API",
			"attempt", attempt+1,
			"max_attempts", maxRetries+1,
			"model", g.model)

		raw, err := g.callOnce(ctx, prompt)
		if err == nil {
			return raw, nil
		}

		if errors.Is(err, generation.ErrContentBlocked) ||
			errors.Is(err, generation.ErrInvalidResponse) {
			return nil, err
		}

		if attempt >= maxRetries {
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, maxRetries, err)
		}

		// delay = base * 2^attempt * jitter in [0.5, 1.0)
		backoff := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitter := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoff * jitter * float64(time.Second))

		g.logger.InfoContext(ctx, "transient Gemini error, retrying",
			"attempt", attempt+1,
			"delay", delay,
			"error", err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// callOnce performs a single model invocation and extracts the raw JSON
// text from the response.
func (g *Generator) callOnce(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt),
		&genai.GenerateContentConfig{ResponseMIMEType: jsonMIMEType})
	if err != nil {
		// Provider errors are assumed transient; the retry loop bounds them.
		return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: finish reason safety", generation.ErrContentBlocked)
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var buf bytes.Buffer
	for _, part := range candidate.Content.Parts {
		buf.WriteString(part.Text)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("%w: response contains no text", generation.ErrInvalidResponse)
	}

	return buf.Bytes(), nil
}
