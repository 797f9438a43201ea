package classifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/codio-labs/codio-api/pkg/errors"
)

const framePrompt = `Analyze this video frame from a Python programming tutorial.

Your task:
1. Determine if this frame shows CODE being written/displayed or if it's a LEARNING/EXPLANATION phase
2. If code is visible, extract it EXACTLY as shown (preserve indentation, syntax)
3. If it's an explanation/learning phase, note what concept is being taught

Response format (JSON only, no markdown):
{
    "segment_type": "code|learning",
    "has_code": true/false,
    "code_content": "extracted code or null",
    "learning_topic": "topic being explained or null",
    "confidence": 0.0-1.0,
    "language": "python",
    "code_complete": true/false
}

Rules:
- Use "code" only when actual code is visible in an IDE/editor
- Use "learning" for slides, diagrams, explanations, or instructor speaking
- Extract code EXACTLY - preserve all spacing, indentation, comments
- Set code_complete to true only if it's a runnable snippet
- Be conservative: if unsure, classify as "learning"`

const conceptPrompt = `You are given the transcript of a Python programming tutorial video%s.

Identify the programming concepts the video teaches. For each concept report:
- name: short concept name (e.g. "for loops", "recursion")
- category: one of control_flow, data_structures, functions, object_oriented, algorithms, error_handling, file_operations, modules, general
- timestamps: seconds into the video where the concept appears, taken from the transcript timings
- confidence: 0.0-1.0
- description: one sentence

Response format (JSON only, no markdown):
{"concepts": [{"name": "...", "category": "...", "timestamps": [12.5], "confidence": 0.9, "description": "..."}]}

Transcript:
%s`

// GeminiConfig configures the Gemini API client
type GeminiConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	Timeout         time.Duration
	Temperature     float64
	TopP            float64
	TopK            int
	MaxOutputTokens int
}

// GeminiClient implements Classifier against the Gemini generateContent API
type GeminiClient struct {
	cfg        GeminiConfig
	httpClient *http.Client
}

// NewGeminiClient creates a Gemini-backed classifier
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}
	if cfg.TopP == 0 {
		cfg.TopP = 0.95
	}
	if cfg.TopK == 0 {
		cfg.TopK = 40
	}
	if cfg.MaxOutputTokens == 0 {
		cfg.MaxOutputTokens = 8192
	}
	return &GeminiClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// --- Gemini API wire types ---

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// ClassifyFrame submits one JPEG frame with the extraction prompt and parses
// the model's JSON verdict
func (g *GeminiClient) ClassifyFrame(ctx context.Context, frame []byte) (*Verdict, error) {
	if len(frame) == 0 {
		return nil, fmt.Errorf("empty frame")
	}

	req := generateRequest{
		Contents: []content{{
			Parts: []part{
				{Text: framePrompt},
				{InlineData: &inlineData{
					MimeType: "image/jpeg",
					Data:     base64.StdEncoding.EncodeToString(frame),
				}},
			},
		}},
		GenerationConfig: g.generationConfig(),
	}

	text, err := g.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	var verdict Verdict
	if err := json.Unmarshal([]byte(stripMarkdownFences(text)), &verdict); err != nil {
		return nil, fmt.Errorf("parsing verdict: %w", err)
	}
	if verdict.SegmentType == "" {
		verdict.SegmentType = SegmentTypeLearning
	}
	if verdict.Language == "" {
		verdict.Language = "python"
	}
	return &verdict, nil
}

// DetectConcepts issues one text-only call over the transcript (plus code
// samples) and parses the structured concept list
func (g *GeminiClient) DetectConcepts(ctx context.Context, transcript string, codeSamples []string) ([]ConceptResult, error) {
	if strings.TrimSpace(transcript) == "" && len(codeSamples) == 0 {
		return nil, fmt.Errorf("nothing to analyze")
	}

	extra := ""
	if len(codeSamples) > 0 {
		extra = fmt.Sprintf(" and %d code snippets extracted from it:\n\n%s\n",
			len(codeSamples), strings.Join(codeSamples, "\n---\n"))
	}

	req := generateRequest{
		Contents: []content{{
			Parts: []part{{Text: fmt.Sprintf(conceptPrompt, extra, transcript)}},
		}},
		GenerationConfig: g.generationConfig(),
	}

	text, err := g.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Concepts []ConceptResult `json:"concepts"`
	}
	if err := json.Unmarshal([]byte(stripMarkdownFences(text)), &parsed); err != nil {
		return nil, fmt.Errorf("parsing concepts: %w", err)
	}
	return parsed.Concepts, nil
}

func (g *GeminiClient) generationConfig() generationConfig {
	return generationConfig{
		Temperature:     g.cfg.Temperature,
		TopP:            g.cfg.TopP,
		TopK:            g.cfg.TopK,
		MaxOutputTokens: g.cfg.MaxOutputTokens,
	}
}

// generate performs one generateContent call and returns the first candidate's text
func (g *GeminiClient) generate(ctx context.Context, reqBody generateRequest) (string, error) {
	if g.cfg.APIKey == "" {
		return "", apperrors.New(apperrors.ErrCodeConfigInvalid, "gemini API key not configured; set CODIO_GEMINI_API_KEY")
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.cfg.BaseURL, g.cfg.Model, g.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if isTimeoutErr(err) {
			return "", fmt.Errorf("gemini request timed out: %w", ErrTransient)
		}
		return "", fmt.Errorf("gemini request failed (%v): %w", err, ErrTransient)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		log.Printf("[DEBUG] Gemini returned status %d, will retry", resp.StatusCode)
		return "", fmt.Errorf("gemini returned status %d: %w", resp.StatusCode, ErrTransient)
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperrors.ExternalServiceError("gemini",
			fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 300)))
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("parsing gemini response: %w", err)
	}
	if genResp.Error != nil {
		return "", fmt.Errorf("gemini error %d: %s", genResp.Error.Code, genResp.Error.Message)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	return strings.TrimSpace(genResp.Candidates[0].Content.Parts[0].Text), nil
}

// stripMarkdownFences removes a surrounding ```json ... ``` block if present;
// the model sometimes wraps its JSON despite the prompt
func stripMarkdownFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return text
	}
	if strings.HasPrefix(lines[len(lines)-1], "```") {
		lines = lines[1 : len(lines)-1]
	} else {
		lines = lines[1:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func isTimeoutErr(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
