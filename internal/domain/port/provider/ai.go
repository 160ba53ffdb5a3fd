package provider

import "context"

// AIProvider is the contract for the generative AI backend
type AIProvider interface {
	// GenerateText returns the model's text response for a prompt
	GenerateText(ctx context.Context, prompt string) (string, error)

	// GenerateImage returns a generated image as a base64 data URI
	GenerateImage(ctx context.Context, prompt string) (string, error)
}
