package geminiai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	errs "github.com/bugswriter/bizniz-api/internal/domain/error"
	"github.com/bugswriter/bizniz-api/internal/domain/port/provider"
)

// Provider implements the generative AI contract on the Gemini API
type Provider struct {
	client     *genai.Client
	textModel  string
	imageModel string
}

// NewProvider creates a Gemini-backed AI provider
func NewProvider(ctx context.Context, apiKey, textModel, imageModel string) (*Provider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Provider{
		client:     client,
		textModel:  textModel,
		imageModel: imageModel,
	}, nil
}

// Close releases the underlying API client
func (p *Provider) Close() error {
	return p.client.Close()
}

var _ provider.AIProvider = (*Provider)(nil)

// GenerateText returns the model's text response for a prompt
func (p *Provider) GenerateText(ctx context.Context, prompt string) (string, error) {
	model := p.client.GenerativeModel(p.textModel)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate text: %w", err)
	}

	text := collectText(resp)
	if text == "" {
		return "", fmt.Errorf("generate text: empty response: %w", errs.ErrExternalService)
	}
	return text, nil
}

// GenerateImage returns a generated image as a base64 data URI
func (p *Provider) GenerateImage(ctx context.Context, prompt string) (string, error) {
	model := p.client.GenerativeModel(p.imageModel)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate image: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if blob, ok := part.(genai.Blob); ok {
				encoded := base64.StdEncoding.EncodeToString(blob.Data)
				return fmt.Sprintf("data:%s;base64,%s", blob.MIMEType, encoded), nil
			}
		}
	}

	return "", fmt.Errorf("generate image: no image in response: %w", errs.ErrExternalService)
}

// collectText concatenates all text parts of the first candidate
func collectText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		break
	}
	return strings.TrimSpace(sb.String())
}
