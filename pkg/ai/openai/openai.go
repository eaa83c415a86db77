package openai

import (
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Client talks to an OpenAI-compatible chat completion endpoint. It is the
// default LLM adapter.
//
// A Client should be created using New.
type Client struct {
	extractionModel string
	chatModel       string

	api *openai.Client
}

// Params configures an OpenAI adapter.
//
// ExtractionModel is used for structured extraction calls,
// ChatModel for conversational answers and plain completions.
// BaseURL may point at any OpenAI-compatible server; when empty the
// official endpoint is used.
type Params struct {
	ExtractionModel string
	ChatModel       string

	BaseURL string
	APIKey  string
}

// New creates an OpenAI adapter with the provided parameters.
func New(params Params) *Client {
	options := []option.RequestOption{
		option.WithAPIKey(params.APIKey),
	}
	if params.BaseURL != "" {
		options = append(options, option.WithBaseURL(params.BaseURL))
	}
	api := openai.NewClient(options...)

	return &Client{
		extractionModel: params.ExtractionModel,
		chatModel:       params.ChatModel,
		api:             &api,
	}
}
