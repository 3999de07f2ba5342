package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"merch-studio-kit/internal/media"
)

type Options struct {
	APIKey      string
	BaseURL     string
	APIVersion  string
	ImageModel  string
	TextModel   string
	SpeechModel string
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

type Client struct {
	apiKey      string
	baseURL     string
	apiVersion  string
	imageModel  string
	textModel   string
	speechModel string
	httpClient  *http.Client
	logger      *slog.Logger
}

func New(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	apiVersion := strings.TrimSpace(opts.APIVersion)
	if apiVersion == "" {
		apiVersion = "v1beta"
	}

	imageModel := strings.TrimSpace(opts.ImageModel)
	if imageModel == "" {
		imageModel = "gemini-2.5-flash-image"
	}
	textModel := strings.TrimSpace(opts.TextModel)
	if textModel == "" {
		textModel = "gemini-3-pro-preview"
	}
	speechModel := strings.TrimSpace(opts.SpeechModel)
	if speechModel == "" {
		speechModel = "gemini-2.5-flash-preview-tts"
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		apiKey:      opts.APIKey,
		baseURL:     baseURL,
		apiVersion:  apiVersion,
		imageModel:  imageModel,
		textModel:   textModel,
		speechModel: speechModel,
		httpClient:  opts.HTTPClient,
		logger:      logger,
	}
}

// GenerateImage submits a prompt plus optional reference images and returns
// the inline images the model produced, as data URLs.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (ImageResult, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return ImageResult{}, errors.New("prompt is empty")
	}

	parts := []part{{Text: prompt}}
	for _, img := range req.Images {
		parts = append(parts, part{InlineData: &blob{
			Data:     media.StripDataURLPrefix(img.DataBase64),
			MimeType: img.MimeType,
		}})
	}

	cfg := generationConfig{ResponseModalities: []string{"IMAGE"}}
	if req.AspectRatio != "" {
		cfg.ImageConfig = &imageConfig{AspectRatio: req.AspectRatio}
	}

	payload := generateContentRequest{
		Contents:         []content{{Role: "user", Parts: parts}},
		GenerationConfig: cfg,
	}

	resp, err := c.generateContent(ctx, c.imageModel, payload)
	if err != nil && cfg.ImageConfig != nil && isUnknownFieldError(err, "imageConfig") {
		payload.GenerationConfig.ImageConfig = nil
		resp, err = c.generateContent(ctx, c.imageModel, payload)
	}
	if err != nil {
		return ImageResult{}, err
	}
	if len(resp.Images) == 0 {
		return ImageResult{}, &APIError{Status: http.StatusOK, Message: "model returned no image"}
	}
	return ImageResult{Images: resp.Images, Text: resp.Text}, nil
}

// GenerateJSON asks the text model for a strictly-JSON response and returns
// the raw JSON text. Parsing is left to the caller so a malformed response
// can be failed atomically at the stage boundary.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, images []ImageInput) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt is empty")
	}

	parts := []part{{Text: prompt}}
	for _, img := range images {
		parts = append(parts, part{InlineData: &blob{
			Data:     media.StripDataURLPrefix(img.DataBase64),
			MimeType: img.MimeType,
		}})
	}

	payload := generateContentRequest{
		Contents: []content{{Role: "user", Parts: parts}},
		GenerationConfig: generationConfig{
			Temperature:      0.7,
			ResponseMimeType: "application/json",
		},
	}

	resp, err := c.generateContent(ctx, c.textModel, payload)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Text) == "" {
		return "", &APIError{Status: http.StatusOK, Message: "model returned empty response"}
	}
	return resp.Text, nil
}

// GenerateSpeech synthesizes the given spoken text and returns raw PCM bytes
// (mono, 24 kHz, 16-bit). Wrap with media.WrapSpeechPCM before playback.
func (c *Client) GenerateSpeech(ctx context.Context, req SpeechRequest) ([]byte, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, errors.New("speech text is empty")
	}

	voice := strings.TrimSpace(req.Voice)
	if voice == "" {
		voice = "Kore"
	}

	payload := generateContentRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: text}}}},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: &voiceConfig{
					PrebuiltVoiceConfig: &prebuiltVoiceConfig{VoiceName: voice},
				},
			},
		},
	}

	raw, err := c.post(ctx, fmt.Sprintf("%s/%s/models/%s:generateContent", c.baseURL, c.apiVersion, c.speechModel), payload)
	if err != nil {
		return nil, err
	}

	var decoded generateContentResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 {
		return nil, &APIError{Status: http.StatusOK, Message: "speech response has no candidates"}
	}
	for _, p := range decoded.Candidates[0].Content.Parts {
		if p.InlineData != nil && p.InlineData.Data != "" {
			pcm, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("decode audio: %w", err)
			}
			return pcm, nil
		}
	}
	return nil, &APIError{Status: http.StatusOK, Message: "speech response has no audio"}
}

// StartVideo submits a long-running video generation operation and returns
// its operation name for polling.
func (c *Client) StartVideo(ctx context.Context, req VideoRequest) (string, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", errors.New("prompt is empty")
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		return "", errors.New("video model is empty")
	}

	inst := videoInstance{Prompt: prompt}
	if req.Seed != nil {
		inst.Image = &videoImage{
			BytesBase64Encoded: media.StripDataURLPrefix(req.Seed.DataBase64),
			MimeType:           req.Seed.MimeType,
		}
	}

	payload := predictLongRunningRequest{
		Instances: []videoInstance{inst},
		Parameters: &videoParameters{
			AspectRatio:     req.AspectRatio,
			DurationSeconds: req.DurationSeconds,
		},
	}

	raw, err := c.post(ctx, fmt.Sprintf("%s/%s/models/%s:predictLongRunning", c.baseURL, c.apiVersion, model), payload)
	if err != nil {
		return "", err
	}

	var decoded operationResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if strings.TrimSpace(decoded.Name) == "" {
		return "", &APIError{Status: http.StatusOK, Message: "operation has no name"}
	}
	return decoded.Name, nil
}

// PollVideo fetches the current state of a long-running video operation.
func (c *Client) PollVideo(ctx context.Context, name string) (VideoOperation, error) {
	name = strings.Trim(strings.TrimSpace(name), "/")
	if name == "" {
		return VideoOperation{}, errors.New("operation name is empty")
	}

	url := fmt.Sprintf("%s/%s/%s", c.baseURL, c.apiVersion, name)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return VideoOperation{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	raw, err := c.do(httpReq)
	if err != nil {
		return VideoOperation{}, err
	}

	var decoded operationResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return VideoOperation{}, fmt.Errorf("decode response: %w", err)
	}

	op := VideoOperation{Name: decoded.Name, Done: decoded.Done}
	if decoded.Error != nil {
		op.ErrText = decoded.Error.Message
	}
	if decoded.Response != nil {
		for _, sample := range decoded.Response.GenerateVideoResponse.GeneratedSamples {
			if sample.Video.URI != "" {
				op.VideoURI = sample.Video.URI
				break
			}
		}
	}
	return op, nil
}

func (c *Client) generateContent(ctx context.Context, model string, payload generateContentRequest) (genResult, error) {
	raw, err := c.post(ctx, fmt.Sprintf("%s/%s/models/%s:generateContent", c.baseURL, c.apiVersion, model), payload)
	if err != nil {
		return genResult{}, err
	}

	var decoded generateContentResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return genResult{}, fmt.Errorf("decode response: %w", err)
	}
	return extractParts(decoded), nil
}

func (c *Client) post(ctx context.Context, url string, payload any) ([]byte, error) {
	if c.httpClient == nil {
		return nil, errors.New("http client is nil")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	return c.do(httpReq)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer httpResp.Body.Close()

	rawBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode >= 400 {
		apiErr := &APIError{Status: httpResp.StatusCode, Message: strings.TrimSpace(string(rawBody))}
		c.logger.Warn("generation API error", "status", httpResp.StatusCode, "url", req.URL.Path)
		return nil, apiErr
	}
	return rawBody, nil
}

type genResult struct {
	Text   string
	Images []string
}

func extractParts(resp generateContentResponse) genResult {
	if len(resp.Candidates) == 0 {
		return genResult{}
	}

	var textBuilder strings.Builder
	var images []string
	for _, p := range resp.Candidates[0].Content.Parts {
		if p.Text != "" {
			textBuilder.WriteString(p.Text)
		}
		if p.InlineData != nil && p.InlineData.Data != "" && p.InlineData.MimeType != "" {
			images = append(images, fmt.Sprintf("data:%s;base64,%s", p.InlineData.MimeType, p.InlineData.Data))
		}
	}
	return genResult{Text: textBuilder.String(), Images: images}
}

func isUnknownFieldError(err error, field string) bool {
	message := err.Error()
	return strings.Contains(message, "Unknown name") && strings.Contains(message, field)
}
