package research

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultMaxPromptTokens is the prompt size allowed before truncation.
const DefaultMaxPromptTokens = 16000

// draftInstructions replace the file-editing part of the research prompt for
// a model without tool access.
const draftInstructions = `You cannot read or edit files. Reply only with the markdown section that
should be appended to the document: start with a "## " heading that names the
topic, add a **Confidence:** marker, and include no preamble or closing remarks.`

// OpenAIRunner asks a chat model to draft the missing section. Its results
// are drafts: the loop appends them to the gap's document.
type OpenAIRunner struct {
	client    *openai.Client
	model     openai.ChatModel
	maxTokens int
	logger    *slog.Logger
}

// NewOpenAIRunner creates a runner using apiKey and model.
func NewOpenAIRunner(apiKey, model string, logger *slog.Logger) (*OpenAIRunner, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return NewOpenAIRunnerWithClient(&client, model, logger), nil
}

// NewOpenAIRunnerWithClient creates a runner around an existing client.
func NewOpenAIRunnerWithClient(client *openai.Client, model string, logger *slog.Logger) *OpenAIRunner {
	chatModel := openai.ChatModel(model)
	if model == "" {
		chatModel = openai.ChatModelGPT4o
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIRunner{
		client:    client,
		model:     chatModel,
		maxTokens: DefaultMaxPromptTokens,
		logger:    logger,
	}
}

// Run sends the prompt as a single user message. Rate limited requests are
// retried with exponential backoff until timeout.
func (r *OpenAIRunner) Run(ctx context.Context, prompt string, timeout time.Duration) (Result, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	prompt = r.truncatePrompt(prompt)

	var text string
	operation := func() error {
		resp, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(draftInstructions),
				openai.UserMessage(prompt),
			},
			Model: r.model,
		})
		if err != nil {
			if isRateLimitError(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		if len(resp.Choices) == 0 {
			return backoff.Permanent(errors.New("empty completion"))
		}
		text = resp.Choices[0].Message.Content
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return Result{}, fmt.Errorf("chat completion failed: %w", err)
	}

	text = strings.TrimSpace(text)
	return Result{Succeeded: text != "", Text: text, Draft: true}, nil
}

// truncatePrompt cuts the prompt to the token budget, estimating four
// characters per token.
func (r *OpenAIRunner) truncatePrompt(prompt string) string {
	maxChars := r.maxTokens * 4
	if len(prompt) <= maxChars {
		return prompt
	}

	r.logger.Warn("Truncating research prompt",
		"from_chars", len(prompt),
		"to_chars", maxChars,
		"estimated_tokens", r.maxTokens,
	)
	return prompt[:maxChars]
}

func isRateLimitError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}
