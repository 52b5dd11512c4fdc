package clients

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	openAIRequestTimeout = 60 * time.Second // Timeout for individual OpenAI API requests
	defaultOpenAIModel   = openai.ChatModelGPT4oMini
)

var (
	openAIClientInstance *OpenAIClient
	openAIOnce           sync.Once
)

// OpenAIClient wraps the completion service. It is process-wide, read-only
// after initialization, and safe to share across concurrent batch calls.
type OpenAIClient struct {
	Client *openai.Client
	model  openai.ChatModel
}

func GetOpenAIClient() *OpenAIClient {
	openAIOnce.Do(func() {
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			slog.Error("[OpenAIClient] Missing OPENAI_API_KEY in environment variables")
			panic("[OpenAIClient] Missing OPENAI_API_KEY in environment variables")
		}

		model := openai.ChatModel(os.Getenv("OPENAI_MODEL"))
		if model == "" {
			model = defaultOpenAIModel
		}

		openAIClientInstance = &OpenAIClient{
			Client: openai.NewClient(
				option.WithAPIKey(apiKey),
				option.WithHTTPClient(&http.Client{Timeout: openAIRequestTimeout}),
			),
			model: model,
		}
		slog.Info("[OpenAIClient] OpenAI client initialized",
			slog.String("model", string(model)),
			slog.Duration("timeout", openAIRequestTimeout))
	})
	return openAIClientInstance
}

// Complete sends one system+user exchange and returns the raw assistant text.
// Responses are served from the Valkey cache when one is configured, so
// repeated categorization and refinement prompts across respondents skip the
// network round trip.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	cacheKey := completionCacheKey(string(c.model), system, user)
	if cached, ok := GetCachedCompletion(ctx, cacheKey); ok {
		slog.Debug("[OpenAIClient] Cache hit", slog.String("key", cacheKey))
		return cached, nil
	}

	messages := []openai.ChatCompletionMessageParamUnion{openai.UserMessage(user)}
	if system != "" {
		messages = append([]openai.ChatCompletionMessageParamUnion{openai.SystemMessage(system)}, messages...)
	}

	chatCompletion, err := c.Client.Chat.Completions.New(ctx,
		openai.ChatCompletionNewParams{
			Messages:    openai.F(messages),
			Model:       openai.F(c.model),
			Temperature: openai.Float(0),
		})
	if err != nil {
		return "", fmt.Errorf("[OpenAIClient] completion request failed: %w", err)
	}

	if len(chatCompletion.Choices) == 0 || strings.TrimSpace(chatCompletion.Choices[0].Message.Content) == "" {
		return "", errors.New("[OpenAIClient] completion service returned an empty response")
	}

	content := chatCompletion.Choices[0].Message.Content
	CacheCompletion(ctx, cacheKey, content)
	return content, nil
}

func completionCacheKey(model, system, user string) string {
	raw := fmt.Sprintf("%s:%s:%s", model, system, user)
	hash := sha256.Sum256([]byte(raw))
	return "completion:" + hex.EncodeToString(hash[:])
}
