package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	appcfg "github.com/mentorsed/core/internal/config"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"
	jetanthropic "go.jetify.com/ai/provider/anthropic"
	jetopenai "go.jetify.com/ai/provider/openai"
)

const generationTimeout = 30 * time.Second

// ErrGenerationUnavailable marks provider failures: missing credential,
// transport error, timeout, or empty response.
var ErrGenerationUnavailable = errors.New("generation service unavailable")

// GenerationClient is the single synchronous bridge to the external
// text-generation service.
type GenerationClient struct {
	cfg        appcfg.AIConfig
	httpClient *http.Client
}

func NewGenerationClient(cfg appcfg.AIConfig) *GenerationClient {
	return &GenerationClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: generationTimeout},
	}
}

// Complete sends the ordered messages and returns the raw model text.
func (c *GenerationClient) Complete(ctx context.Context, messages []PromptMessage, maxTokens int, temperature float64) (string, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", fmt.Errorf("%w: api key is not configured", ErrGenerationUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	if isOpenAICompatibleType(c.cfg.Type) {
		return c.completeOpenAICompatible(ctx, messages, maxTokens, temperature)
	}

	model, err := c.buildLanguageModel()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}

	resp, err := jetai.GenerateText(
		ctx,
		buildPromptMessages(messages),
		jetai.WithModel(model),
		jetai.WithMaxOutputTokens(maxTokens),
		jetai.WithTemperature(temperature),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}
	return extractResponseText(resp)
}

func (c *GenerationClient) buildLanguageModel() (jetapi.LanguageModel, error) {
	apiKey := strings.TrimSpace(c.cfg.APIKey)
	modelID := strings.TrimSpace(c.cfg.Model)
	endpoint := strings.TrimSpace(c.cfg.Endpoint)

	if strings.EqualFold(c.cfg.Type, "anthropic") {
		if modelID == "" {
			modelID = "claude-haiku-4-5-20251001"
		}
		opts := []anthropicoption.RequestOption{
			anthropicoption.WithAPIKey(apiKey),
			anthropicoption.WithMaxRetries(0),
		}
		if endpoint != "" {
			opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(endpoint, "/")))
		}
		client := anthropicclient.NewClient(opts...)
		return jetanthropic.NewLanguageModel(modelID, jetanthropic.WithClient(client)), nil
	}

	if modelID == "" {
		modelID = "gpt-4o-mini"
	}
	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(apiKey),
		openaioption.WithMaxRetries(0),
	}
	if normalized := normalizeOpenAIBaseURL(endpoint); normalized != "" {
		opts = append(opts, openaioption.WithBaseURL(normalized))
	}
	client := openaiclient.NewClient(opts...)
	return jetopenai.NewLanguageModel(modelID, jetopenai.WithClient(client)), nil
}

func (c *GenerationClient) completeOpenAICompatible(ctx context.Context, messages []PromptMessage, maxTokens int, temperature float64) (string, error) {
	endpoint := normalizeOpenAICompatibleEndpoint(c.cfg.Endpoint)
	model := strings.TrimSpace(c.cfg.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}

	wire := make([]map[string]string, 0, len(messages))
	for _, m := range messages {
		wire = append(wire, map[string]string{
			"role":    string(m.Role),
			"content": m.Content,
		})
	}

	body, _ := json.Marshal(map[string]interface{}{
		"model":       model,
		"messages":    wire,
		"max_tokens":  maxTokens,
		"temperature": temperature,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(c.cfg.APIKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("%w: %s", ErrGenerationUnavailable, strings.TrimSpace(string(respBody)))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("%w: invalid response: %v", ErrGenerationUnavailable, err)
	}
	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: empty response", ErrGenerationUnavailable)
	}
	return result.Choices[0].Message.Content, nil
}

func buildPromptMessages(messages []PromptMessage) []jetapi.Message {
	out := make([]jetapi.Message, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, &jetapi.SystemMessage{Content: m.Content})
		case RoleAssistant:
			out = append(out, &jetapi.AssistantMessage{Content: jetapi.ContentFromText(m.Content)})
		default:
			out = append(out, &jetapi.UserMessage{Content: jetapi.ContentFromText(m.Content)})
		}
	}
	return out
}

func extractResponseText(resp *jetapi.Response) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: empty response", ErrGenerationUnavailable)
	}

	var full strings.Builder
	for _, block := range resp.Content {
		textBlock, ok := block.(*jetapi.TextBlock)
		if !ok || textBlock.Text == "" {
			continue
		}
		full.WriteString(textBlock.Text)
	}

	text := full.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty response", ErrGenerationUnavailable)
	}
	return text, nil
}

func isOpenAICompatibleType(raw string) bool {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "")
	return t == "openai-compatible" || t == "openaicompatible"
}

func normalizeOpenAIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}

	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		if path == "" {
			path = "/v1"
		} else {
			path += "/v1"
		}
	}
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}

func normalizeOpenAICompatibleEndpoint(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return "https://api.openai.com"
	}

	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		cleaned := strings.TrimRight(base, "/")
		return strings.TrimSuffix(cleaned, "/v1")
	}

	path := strings.TrimRight(parsed.Path, "/")
	path = strings.TrimSuffix(path, "/v1")
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}
