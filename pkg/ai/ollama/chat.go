package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/pkoukk/tiktoken-go"

	"github.com/corpora-lab/papergraph/pkg/ai"
)

const defaultContextWindow = 4096

// GenerateCompletion sends a single-turn prompt and returns the model's
// answer as plain text.
func (c *Client) GenerateCompletion(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (string, error) {
	options := ai.GenerateOptions{
		Model:       c.chatModel,
		Temperature: 0.3,
	}
	for _, o := range opts {
		o(&options)
	}

	messages := buildMessages(options.SystemPrompts, ai.ChatMessage{Message: prompt, Role: "user"})

	req := &api.ChatRequest{
		Model:    options.Model,
		Messages: messages,
		Stream:   streamOff(),
		Options:  requestOptions(messages, options.Temperature),
	}

	return c.chat(ctx, req)
}

// GenerateCompletionWithFormat sends a prompt to the extraction model with a
// strict JSON schema derived from out and unmarshals the answer into it.
// Malformed model output is repaired before parsing.
func (c *Client) GenerateCompletionWithFormat(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	out any,
	opts ...ai.GenerateOption,
) error {
	options := ai.GenerateOptions{
		Model:       c.extractionModel,
		Temperature: 0.1,
	}
	for _, o := range opts {
		o(&options)
	}

	schemaBytes, err := json.Marshal(ai.GenerateSchema(out))
	if err != nil {
		return fmt.Errorf("failed to marshal schema %q: %w", name, err)
	}

	messages := buildMessages(options.SystemPrompts, ai.ChatMessage{Message: prompt, Role: "user"})

	req := &api.ChatRequest{
		Model:    options.Model,
		Messages: messages,
		Stream:   streamOff(),
		Format:   json.RawMessage(schemaBytes),
		Options:  requestOptions(messages, options.Temperature),
	}

	content, err := c.chat(ctx, req)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(content), out); err != nil {
		return ai.UnmarshalFlexible(content, out)
	}
	return nil
}

// GenerateChat runs a multi-turn conversation and returns the next
// assistant message.
func (c *Client) GenerateChat(
	ctx context.Context,
	chatMessages []ai.ChatMessage,
	opts ...ai.GenerateOption,
) (string, error) {
	options := ai.GenerateOptions{
		Model:       c.chatModel,
		Temperature: 0.3,
	}
	for _, o := range opts {
		o(&options)
	}

	messages := buildMessages(options.SystemPrompts, chatMessages...)

	req := &api.ChatRequest{
		Model:    options.Model,
		Messages: messages,
		Stream:   streamOff(),
		Options:  requestOptions(messages, options.Temperature),
	}

	return c.chat(ctx, req)
}

func (c *Client) chat(ctx context.Context, req *api.ChatRequest) (string, error) {
	var sb strings.Builder
	err := c.api.Chat(ctx, req, func(resp api.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat request failed: %w", err)
	}
	return sb.String(), nil
}

func buildMessages(systemPrompts []string, chatMessages ...ai.ChatMessage) []api.Message {
	messages := make([]api.Message, 0, len(systemPrompts)+len(chatMessages))
	for _, sp := range systemPrompts {
		messages = append(messages, api.Message{Role: "system", Content: sp})
	}
	for _, m := range chatMessages {
		role := "user"
		if m.Role == "assistant" {
			role = "assistant"
		}
		messages = append(messages, api.Message{Role: role, Content: m.Message})
	}
	return messages
}

func streamOff() *bool {
	stream := false
	return &stream
}

// requestOptions sizes num_ctx to the prompt when it exceeds the default
// context window, so long documents are not silently truncated.
func requestOptions(messages []api.Message, temperature float64) map[string]any {
	o := map[string]any{
		"temperature": temperature,
	}

	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		return o
	}

	total := 0
	for _, m := range messages {
		total += len(enc.Encode(m.Content, nil, nil))
	}
	// headroom for the answer
	total += 1024

	if total > defaultContextWindow {
		o["num_ctx"] = total
	}
	return o
}
