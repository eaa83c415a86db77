package ollama

import (
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
)

// Client implements the ai.Client interface against a locally hosted
// Ollama server.
type Client struct {
	extractionModel string
	chatModel       string

	api *api.Client
}

// Params configures an Ollama adapter.
type Params struct {
	ExtractionModel string
	ChatModel       string

	BaseURL string
	APIKey  string
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so the original request isn't modified
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// New creates an Ollama adapter. BaseURL may be empty for the default
// local server; APIKey is sent as a bearer token when set.
func New(params Params) (*Client, error) {
	var (
		u   *url.URL
		err error
	)
	if params.BaseURL != "" {
		u, err = url.Parse(params.BaseURL)
		if err != nil {
			return nil, err
		}
	}

	httpClient := http.DefaultClient
	if params.APIKey != "" {
		httpClient = &http.Client{
			Transport: &headerTransport{
				headers: map[string]string{
					"Authorization": "Bearer " + params.APIKey,
				},
				rt: http.DefaultTransport,
			},
		}
	}

	return &Client{
		extractionModel: params.ExtractionModel,
		chatModel:       params.ChatModel,
		api:             api.NewClient(u, httpClient),
	}, nil
}
