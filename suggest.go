package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"lg/nutrition-go-api/internal/config"
	"lg/nutrition-go-api/internal/nutrition"
)

/* ─── Request / Response types ───────────────────────────────────────── */

// suggestRequest is the request body for POST /api/nutrition/foods/suggest.
type suggestRequest struct {
	Description string `json:"description"`
}

// foodSuggestion is the structured nutrition data returned by the AI.
// Confidence is 1-5 indicating how accurate the estimate is.
type foodSuggestion struct {
	Title      string  `json:"title"`
	Qty        float64 `json:"qty"`
	Unit       string  `json:"unit"`
	Calories   float64 `json:"calories"`
	ProteinG   float64 `json:"proteinG"`
	CarbsG     float64 `json:"carbsG"`
	FatG       float64 `json:"fatG"`
	Confidence int     `json:"confidence"`
}

// errUnrecognized means the model could not read the description as food.
var errUnrecognized = errors.New("unrecognized")

// suggester turns a free-text food description into a suggestion.
type suggester interface {
	Suggest(ctx context.Context, description string) (foodSuggestion, error)
}

// newSuggester builds the provider selected in cfg. Missing keys are reported
// per request, not at startup.
func newSuggester(cfg config.SuggestConfig) suggester {
	if cfg.Provider == config.ProviderGemini {
		return &geminiSuggester{apiKey: cfg.GeminiKey, model: cfg.GeminiModel, timeout: cfg.Timeout}
	}
	return &openAISuggester{
		baseURL:    cfg.OpenAIBaseURL,
		apiKey:     cfg.OpenAIKey,
		model:      cfg.OpenAIModel,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

/* ─── Prompt ─────────────────────────────────────────────────────────── */

const foodSystemPrompt = `You are a nutrition assistant. Parse the food description and return a JSON object with:
- "item_name" (string, cleaned up title case)
- "qty" (number)
- "uom" (one of: each, g, ml, cup, tbsp, slice, serving)
- "calories" (integer, total for the full quantity)
- "protein_g" (integer, total for the full quantity)
- "carbs_g" (integer, total for the full quantity)
- "fat_g" (integer, total for the full quantity)
- "confidence" (integer 1-5: 5=exact known nutritional data, 4=very close estimate, 3=reasonable estimate, 2=rough guess, 1=very uncertain)

Always provide your best estimate, even for unfamiliar or vague items. Use your knowledge of similar foods to approximate. Only return {"error": "unrecognized"} if the input is not food at all (e.g. random characters, non-food objects).
Return only valid JSON, no explanation.`

// modelReply is the JSON object both providers are asked to produce.
type modelReply struct {
	Error      string  `json:"error"`
	ItemName   string  `json:"item_name"`
	Qty        float64 `json:"qty"`
	Uom        string  `json:"uom"`
	Calories   float64 `json:"calories"`
	ProteinG   float64 `json:"protein_g"`
	CarbsG     float64 `json:"carbs_g"`
	FatG       float64 `json:"fat_g"`
	Confidence int     `json:"confidence"`
}

// parseModelReply decodes a provider's JSON content. Replies without a name or
// calories count as unrecognized.
func parseModelReply(content string) (foodSuggestion, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimSuffix(strings.TrimPrefix(content, "```"), "```")

	var r modelReply
	if err := json.Unmarshal([]byte(content), &r); err != nil {
		return foodSuggestion{}, fmt.Errorf("parse model reply: %w", err)
	}
	if r.Error == "unrecognized" || r.ItemName == "" || r.Calories == 0 {
		return foodSuggestion{}, errUnrecognized
	}
	return foodSuggestion{
		Title:      r.ItemName,
		Qty:        r.Qty,
		Unit:       r.Uom,
		Calories:   r.Calories,
		ProteinG:   r.ProteinG,
		CarbsG:     r.CarbsG,
		FatG:       r.FatG,
		Confidence: r.Confidence,
	}, nil
}

/* ─── OpenAI ─────────────────────────────────────────────────────────── */

// openAIMessage is a single message in the OpenAI chat completions request.
type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIRequest is the request body for the OpenAI chat completions API.
type openAIRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat map[string]any  `json:"response_format"`
}

// openAISuggester calls the chat completions API with raw net/http.
type openAISuggester struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func (s *openAISuggester) Suggest(ctx context.Context, description string) (foodSuggestion, error) {
	content, err := s.complete(ctx, []openAIMessage{
		{Role: "system", Content: foodSystemPrompt},
		{Role: "user", Content: description},
	})
	if err != nil {
		return foodSuggestion{}, err
	}
	return parseModelReply(content)
}

// complete sends a chat completions request and returns the content string
// from the first choice.
func (s *openAISuggester) complete(ctx context.Context, messages []openAIMessage) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	}

	bodyBytes, err := json.Marshal(openAIRequest{
		Model:          s.model,
		Messages:       messages,
		Temperature:    0,
		ResponseFormat: map[string]any{"type": "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode, string(respBytes))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return result.Choices[0].Message.Content, nil
}

/* ─── Gemini ─────────────────────────────────────────────────────────── */

// geminiSuggester calls Gemini through the generative-ai-go SDK. A client is
// opened per request.
type geminiSuggester struct {
	apiKey  string
	model   string
	timeout time.Duration
}

func (s *geminiSuggester) Suggest(ctx context.Context, description string) (foodSuggestion, error) {
	if s.apiKey == "" {
		return foodSuggestion{}, fmt.Errorf("GEMINI_API_KEY not set")
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return foodSuggestion{}, fmt.Errorf("create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(s.model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(foodSystemPrompt))
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0)

	resp, err := model.GenerateContent(ctx, genai.Text(description))
	if err != nil {
		return foodSuggestion{}, fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return foodSuggestion{}, fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return parseModelReply(sb.String())
}

/* ─── Handler ────────────────────────────────────────────────────────── */

// suggestFood handles POST /api/nutrition/foods/suggest.
// Accepts a food description, asks the configured provider to parse it into
// structured nutrition data, and returns the suggestion. Input the model cannot
// read as food comes back as 200 {"error": "unrecognized"}.
func (h *Handler) suggestFood(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		h.respondError(c, nutrition.NewValidationError("description", "is required"), "")
		return
	}

	suggestion, err := h.suggester.Suggest(c, req.Description)
	if errors.Is(err, errUnrecognized) {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}
	if err != nil {
		h.logger.ErrorContext(c, "suggest: provider failed", slog.Any("error", err))
		apiError(c, http.StatusInternalServerError, "suggestion request failed")
		return
	}

	c.JSON(http.StatusOK, suggestion)
}
