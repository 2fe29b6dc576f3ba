package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"credify-backend/internal/usecase/assistant"

	"google.golang.org/genai"
)

const detectPrompt = `Does this identity document image contain a clearly visible human face photo?
Answer with JSON only: {"face_found": true} or {"face_found": false}.`

// generator is the slice of the genai Models service used here.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	models generator
	model  string
}

func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: missing api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	return &Client{models: c.Models, model: model}, nil
}

func toContents(history []assistant.Message, message string) []*genai.Content {
	out := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		role := genai.Role(genai.RoleModel)
		if m.Role == "user" {
			role = genai.RoleUser
		}
		out = append(out, genai.NewContentFromText(m.Text, role))
	}
	return append(out, genai.NewContentFromText(message, genai.RoleUser))
}

// Generate implements assistant.Model.
func (c *Client) Generate(ctx context.Context, system string, history []assistant.Message, message string) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	resp, err := c.models.GenerateContent(ctx, c.model, toContents(history, message), cfg)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

type detectResult struct {
	FaceFound bool `json:"face_found"`
}

// DetectFace implements kyc.FaceDetector.
func (c *Client) DetectFace(ctx context.Context, mime string, image []byte) (bool, error) {
	parts := []*genai.Part{
		genai.NewPartFromBytes(image, mime),
		genai.NewPartFromText(detectPrompt),
	}
	resp, err := c.models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"})
	if err != nil {
		return false, err
	}
	var r detectResult
	text := strings.TrimSpace(resp.Text())
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		return false, fmt.Errorf("gemini: decode detection %q: %w", text, err)
	}
	return r.FaceFound, nil
}
