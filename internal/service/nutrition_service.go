package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"

	apperrors "smartmess/internal/errors"
)

const (
	adviceSystemPrompt = "Act as a friendly, expert university nutritionist specializing in balanced student diets. " +
		"Provide practical advice tailored to the user's query. Ensure the response is concise and easy to understand."
	adviceFallback = "I am currently unable to provide personalized nutrition advice. " +
		"Please check your network connection or try again later."

	adviceMaxTries        = 3
	adviceInitialInterval = 1 * time.Second
	imagePromptMaxLen     = 30
)

// errRateLimited marks a 429 from the LLM upstream; the only failure
// worth retrying.
var errRateLimited = errors.New("llm rate limited")

// NutritionService talks to the LLM upstream for diet advice and builds
// meal image URLs.
type NutritionService interface {
	GetAdvice(ctx context.Context, prompt string) (string, error)
	GenerateMealImage(ctx context.Context, prompt string) (string, error)
}

type nutritionService struct {
	httpClient      *http.Client
	apiURL          string
	apiKey          string
	imageBaseURL    string
	initialInterval time.Duration
}

// NewNutritionService creates a new nutrition service. apiURL is the
// full generateContent endpoint; the key is appended as a query param.
func NewNutritionService(httpClient *http.Client, apiURL, apiKey, imageBaseURL string) NutritionService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &nutritionService{
		httpClient:      httpClient,
		apiURL:          apiURL,
		apiKey:          apiKey,
		imageBaseURL:    imageBaseURL,
		initialInterval: adviceInitialInterval,
	}
}

// Gemini-style generateContent request/response shapes, reduced to the
// fields this service reads and writes.

type llmPart struct {
	Text string `json:"text"`
}

type llmContent struct {
	Parts []llmPart `json:"parts"`
}

type llmRequest struct {
	Contents          []llmContent `json:"contents"`
	SystemInstruction llmContent   `json:"systemInstruction"`
}

type llmResponse struct {
	Candidates []struct {
		Content llmContent `json:"content"`
	} `json:"candidates"`
}

// GetAdvice asks the LLM upstream for nutrition advice. Rate limiting
// (429) is retried with exponential backoff, three attempts with a one
// second base delay that doubles; every other failure propagates
// immediately. When all retries are rate limited the canned fallback
// advice is returned instead of an error.
func (s *nutritionService) GetAdvice(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(llmRequest{
		Contents:          []llmContent{{Parts: []llmPart{{Text: prompt}}}},
		SystemInstruction: llmContent{Parts: []llmPart{{Text: adviceSystemPrompt}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal llm request: %w", err)
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = s.initialInterval
	expo.Multiplier = 2
	expo.RandomizationFactor = 0

	text, err := backoff.Retry(ctx, func() (string, error) {
		return s.requestAdvice(ctx, body)
	}, backoff.WithBackOff(expo), backoff.WithMaxTries(adviceMaxTries))
	if err != nil {
		if errors.Is(err, errRateLimited) {
			return adviceFallback, nil
		}
		return "", fmt.Errorf("%w: %v", apperrors.ErrAdviceUnavailable, err)
	}
	return text, nil
}

func (s *nutritionService) requestAdvice(ctx context.Context, body []byte) (string, error) {
	endpoint := s.apiURL
	if s.apiKey != "" {
		endpoint += "?key=" + url.QueryEscape(s.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", backoff.Permanent(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return "", errRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return "", backoff.Permanent(fmt.Errorf("llm api status %d", resp.StatusCode))
	}

	var parsed llmResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", backoff.Permanent(fmt.Errorf("decode llm response: %w", err))
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 ||
		parsed.Candidates[0].Content.Parts[0].Text == "" {
		return "", backoff.Permanent(errors.New("empty response from llm"))
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// GenerateMealImage builds a placeholder image URL from the prompt. No
// external call is made; the image model integration is a stub upstream
// of us too.
func (s *nutritionService) GenerateMealImage(_ context.Context, prompt string) (string, error) {
	// Truncate on runes so a multibyte character is never split.
	if runes := []rune(prompt); len(runes) > imagePromptMaxLen {
		prompt = string(runes[:imagePromptMaxLen])
	}
	return fmt.Sprintf("%s?text=%s&font=inter", s.imageBaseURL, url.QueryEscape(prompt)), nil
}
