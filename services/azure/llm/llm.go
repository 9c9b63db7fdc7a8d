package llm

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"voicekit/core"
)

// Config holds the Azure OpenAI connection and generation settings.
type Config struct {
	Endpoint    string  `json:"endpoint"`    // e.g. https://your-resource.openai.azure.com
	APIKey      string  `json:"api_key"`
	Deployment  string  `json:"deployment"`  // Deployment (model) identifier.
	APIVersion  string  `json:"api_version"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float32 `json:"temperature"`

	// Timeout bounds one completion call end to end.
	Timeout time.Duration `json:"-"`
}

// DefaultConfig returns the generation parameters tuned for spoken replies:
// a short output budget and a moderate sampling temperature.
func DefaultConfig() Config {
	return Config{
		Deployment:  "gpt-4",
		APIVersion:  "2024-02-15-preview",
		MaxTokens:   200,
		Temperature: 0.7,
		Timeout:     30 * time.Second,
	}
}

// AzureLLMService runs chat completions against an Azure OpenAI deployment.
type AzureLLMService struct {
	config Config
	client *openai.Client
	logger *core.Logger
}

func NewAzureLLMService(config Config, logger *core.Logger) *AzureLLMService {
	defaults := DefaultConfig()
	if config.Deployment == "" {
		config.Deployment = defaults.Deployment
	}
	if config.APIVersion == "" {
		config.APIVersion = defaults.APIVersion
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = defaults.MaxTokens
	}
	if config.Temperature == 0 {
		config.Temperature = defaults.Temperature
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}

	service := &AzureLLMService{config: config, logger: logger}
	if service.Configured() {
		clientConfig := openai.DefaultAzureConfig(config.APIKey, config.Endpoint)
		clientConfig.APIVersion = config.APIVersion
		deployment := config.Deployment
		clientConfig.AzureModelMapperFunc = func(string) string { return deployment }
		clientConfig.HTTPClient = &http.Client{Timeout: config.Timeout}
		service.client = openai.NewClientWithConfig(clientConfig)
	}
	return service
}

// Configured reports whether endpoint and key are both present. Checked
// before any network call is attempted.
func (s *AzureLLMService) Configured() bool {
	return s.config.Endpoint != "" && s.config.APIKey != ""
}

// Complete sends the assembled messages with the fixed generation parameters
// and returns the first choice's text. Failures map onto the turn-failure
// taxonomy; nothing is retried here.
func (s *AzureLLMService) Complete(ctx context.Context, messages []core.Turn) (string, error) {
	if !s.Configured() {
		return "", core.NewConfigurationError("azure openai endpoint or key not set")
	}

	req := openai.ChatCompletionRequest{
		Model:       s.config.Deployment,
		Messages:    convertTurns(messages),
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", core.NewProviderError(0, "completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func convertTurns(turns []core.Turn) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, turn := range turns {
		out = append(out, openai.ChatCompletionMessage{
			Role:    convertRole(turn.Role),
			Content: turn.Content,
		})
	}
	return out
}

func convertRole(role core.Role) string {
	switch role {
	case core.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	case core.RoleSystem:
		return openai.ChatMessageRoleSystem
	default:
		return openai.ChatMessageRoleUser
	}
}

// classify maps client errors onto the turn-failure taxonomy.
func classify(err error) *core.TurnError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return core.NewProviderError(apiErr.HTTPStatusCode, truncate(apiErr.Message, 200))
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return core.NewProviderError(reqErr.HTTPStatusCode, truncate(reqErr.Error(), 200))
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return core.NewTimeoutError("completion provider did not respond in time")
	}
	return core.NewTransportError(err.Error())
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
