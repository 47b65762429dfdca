package repository

import (
	"context"
	"fmt"
	"io"
	"strings"

	"edem-chat-server/internal/domain"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/iterator"
)

// VertexAIClient implements the domain.AIClient interface against the
// Vertex AI Gemini API.
type VertexAIClient struct {
	client    *genai.Client
	modelName string
	logger    domain.Logger
}

// NewVertexAIClient creates a new Vertex AI client
func NewVertexAIClient(ctx context.Context, projectID, location, modelName string, logger domain.Logger) (*VertexAIClient, error) {
	client, err := genai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex ai client: %w", err)
	}

	return &VertexAIClient{
		client:    client,
		modelName: modelName,
		logger:    logger,
	}, nil
}

func (c *VertexAIClient) buildChat(req domain.CompletionRequest) (*genai.ChatSession, error) {
	model := c.client.GenerativeModel(c.modelName)
	if req.Temperature > 0 {
		model.SetTemperature(req.Temperature)
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(req.MaxTokens)
	}
	if req.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemPrompt)},
		}
	}

	chat := model.StartChat()
	for _, msg := range req.History {
		role := "user"
		if msg.Role == domain.RoleAssistant {
			role = "model"
		}
		chat.History = append(chat.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}
	return chat, nil
}

// Complete runs one non-streaming generation
func (c *VertexAIClient) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	chat, err := c.buildChat(req)
	if err != nil {
		return "", err
	}

	resp, err := chat.SendMessage(ctx, genai.Text(req.UserMessage))
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

// StreamCompletion starts a streaming generation. The returned stream
// yields text fragments in arrival order and io.EOF after the last one.
// Cancelling ctx aborts the upstream call.
func (c *VertexAIClient) StreamCompletion(ctx context.Context, req domain.CompletionRequest) (domain.CompletionStream, error) {
	chat, err := c.buildChat(req)
	if err != nil {
		return nil, err
	}

	iter := chat.SendMessageStream(ctx, genai.Text(req.UserMessage))
	return &vertexStream{iter: iter}, nil
}

type vertexStream struct {
	iter *genai.GenerateContentResponseIterator
}

// Recv returns the next text fragment, io.EOF at end of stream, or the
// upstream error.
func (s *vertexStream) Recv() (string, error) {
	for {
		resp, err := s.iter.Next()
		if err == iterator.Done {
			return "", io.EOF
		}
		if err != nil {
			return "", err
		}
		if text := responseText(resp); text != "" {
			return text, nil
		}
		// Candidates without text parts (safety metadata etc.) are skipped.
	}
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}
