package zhipu

import "time"

const (
	defaultEndpoint        = "https://open.bigmodel.cn/api/paas/v4/chat/completions"
	defaultModel           = "glm-4-flash"
	defaultTemperature     = 0.7
	defaultTopP            = 0.7
	defaultRequestIDPrefix = "test"

	requestIDLayout = "20060102_150405"

	// RoleUser is the chat role of caller supplied prompts.
	RoleUser = "user"
)

// Config is GLM chat-completion client configuration.
// Zero values fall back to defaults. A zero Timeout leaves the HTTP client's
// own timeout in place.
type Config struct {
	Endpoint        string
	Model           string
	Temperature     float64
	TopP            float64
	RequestIDPrefix string
	Timeout         time.Duration
}

// TokenSource produces a bearer token for a single request.
type TokenSource interface {
	Token() (string, error)
}

// Usage counts tokens consumed by one call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"     yaml:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens" yaml:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"      yaml:"total_tokens"`
}

// Response is the result of one chat-completion call.
// Content and Usage are only populated for 2xx responses with a well-formed body.
type Response struct {
	StatusCode int
	RequestID  string
	Body       []byte
	ID         string
	Model      string
	Content    string
	Usage      *Usage
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// CallOption overrides request parameters for a single call.
type CallOption func(*callConfig)

type callConfig struct {
	model       string
	temperature float64
	topP        float64
}

// WithModel overrides the model identifier.
func WithModel(model string) CallOption {
	return func(c *callConfig) { c.model = model }
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(temp float64) CallOption {
	return func(c *callConfig) { c.temperature = temp }
}

// WithTopP overrides nucleus sampling.
func WithTopP(topP float64) CallOption {
	return func(c *callConfig) { c.topP = topP }
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	RequestID   string        `json:"request_id"`
}

type chatMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int          `json:"index"`
		FinishReason string       `json:"finish_reason"`
		Message      *chatMessage `json:"message"`
	} `json:"choices"`
	Usage *Usage `json:"usage"`
}

type apiErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
