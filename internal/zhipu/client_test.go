package zhipu

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/metalagman/glmprobe/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) Token() (string, error) { return s.token, s.err }

const okBody = `{
	"id": "8311",
	"model": "glm-4-flash",
	"created": 1700000000,
	"choices": [
		{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Role: frontend developer"}}
	],
	"usage": {"prompt_tokens": 12, "completion_tokens": 34, "total_tokens": 46}
}`

func newTestClient(t *testing.T, srv *httptest.Server, tokens TokenSource) *Client {
	t.Helper()
	c, err := NewClient(Config{Endpoint: srv.URL + "/api/paas/v4/chat/completions"}, tokens, srv.Client())
	require.NoError(t, err)
	c.now = func() time.Time { return time.Date(2024, 11, 5, 9, 30, 15, 0, time.UTC) }
	return c
}

func TestClientComplete_SendsExpectedPayloadAndParsesOutput(t *testing.T) {
	t.Parallel()

	var gotAuth, gotContentType, gotPath, gotMethod string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotPath = r.URL.Path
		gotMethod = r.Method

		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read request body: %v", err)
		}
		if err := json.Unmarshal(body, &gotBody); err != nil {
			t.Errorf("unmarshal request body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(okBody))
	}))
	t.Cleanup(srv.Close)

	client := newTestClient(t, srv, staticTokens{token: "signed-token"})

	resp, err := client.Complete(context.Background(), "Analyse the topic")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Role: frontend developer", resp.Content)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, Usage{PromptTokens: 12, CompletionTokens: 34, TotalTokens: 46}, *resp.Usage)
	assert.Equal(t, "8311", resp.ID)
	assert.Equal(t, "glm-4-flash", resp.Model)
	assert.JSONEq(t, okBody, string(resp.Body))
	assert.Equal(t, "test_20241105_093015", resp.RequestID)

	assert.Equal(t, "Bearer signed-token", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/paas/v4/chat/completions", gotPath)
	assert.Equal(t, "glm-4-flash", gotBody["model"])
	assert.InDelta(t, 0.7, gotBody["temperature"], 1e-9)
	assert.InDelta(t, 0.7, gotBody["top_p"], 1e-9)
	assert.Equal(t, "test_20241105_093015", gotBody["request_id"])
	assert.Equal(t, []any{map[string]any{"role": "user", "content": "Analyse the topic"}}, gotBody["messages"])
}

func TestClientComplete_CallOptionsOverrideDefaults(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(okBody))
	}))
	t.Cleanup(srv.Close)

	client := newTestClient(t, srv, staticTokens{token: "t"})
	_, err := client.Complete(context.Background(), "p", WithTemperature(0.5), WithTopP(0.9), WithModel("glm-4"))
	require.NoError(t, err)

	assert.InDelta(t, 0.5, gotBody["temperature"], 1e-9)
	assert.InDelta(t, 0.9, gotBody["top_p"], 1e-9)
	assert.Equal(t, "glm-4", gotBody["model"])
}

func TestClientComplete_UsageIsOptional(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hi"}}]}`))
	}))
	t.Cleanup(srv.Close)

	resp, err := newTestClient(t, srv, staticTokens{token: "t"}).Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "hi", resp.Content)
	assert.Nil(t, resp.Usage)
}

func TestClientComplete_NonSuccessStatusReturnsRawBody(t *testing.T) {
	t.Parallel()

	const body = `{"error":{"code":"1002","message":"Authorization Token非法"}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	resp, err := newTestClient(t, srv, staticTokens{token: "t"}).Complete(context.Background(), "p")
	require.Error(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, body, string(resp.Body))
	assert.Empty(t, resp.Content)
	assert.Nil(t, resp.Usage)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindUnexpectedStatus, apiErr.Kind)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "1002")
	assert.True(t, apiErr.AuthRejected())
	assert.False(t, apiErr.Retryable())
}

func TestClientComplete_MalformedSuccessBody(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"not json":      `<html>oops</html>`,
		"no choices":    `{"choices":[]}`,
		"no message":    `{"choices":[{"index":0}]}`,
		"null content":  `{"choices":[{"message":{"role":"assistant","content":null}}]}`,
		"missing field": `{"id":"x"}`,
	}
	for name, body := range cases {
		body := body
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			t.Cleanup(srv.Close)

			resp, err := newTestClient(t, srv, staticTokens{token: "t"}).Complete(context.Background(), "p")
			assert.True(t, IsKind(err, KindUnexpectedBody), "err = %v", err)
			require.NotNil(t, resp)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, body, string(resp.Body))
		})
	}
}

func TestClientComplete_TransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newTestClient(t, srv, staticTokens{token: "t"})
	srv.Close()

	resp, err := client.Complete(context.Background(), "p")
	assert.Nil(t, resp)
	assert.True(t, IsKind(err, KindTransport), "err = %v", err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.Retryable())
}

func TestClientComplete_TokenFailureSendsNothing(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	t.Cleanup(srv.Close)

	_, err := newTestClient(t, srv, auth.NewBuilder("no-separator")).Complete(context.Background(), "p")
	assert.True(t, IsKind(err, KindInvalidCredential), "err = %v", err)
	assert.True(t, IsAuthFailure(err))
	assert.ErrorIs(t, err, auth.ErrInvalidCredentialFormat)

	_, err = newTestClient(t, srv, staticTokens{err: errors.New("boom")}).Complete(context.Background(), "p")
	assert.True(t, IsKind(err, KindTokenSigning), "err = %v", err)

	_, err = newTestClient(t, srv, staticTokens{}).Complete(context.Background(), "p")
	assert.True(t, IsKind(err, KindTokenSigning), "err = %v", err)

	assert.Zero(t, hits.Load())
}

func TestClientComplete_RejectsEmptyPrompt(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(srv.Close)

	_, err := newTestClient(t, srv, staticTokens{token: "t"}).Complete(context.Background(), "  ")
	assert.True(t, IsKind(err, KindInvalidPrompt))
}

func TestClientComplete_SignsWithBuilderToken(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(okBody))
	}))
	t.Cleanup(srv.Close)

	builder := auth.NewBuilder("abc.def", auth.WithClock(func() time.Time { return now }))
	_, err := newTestClient(t, srv, builder).Complete(context.Background(), "p")
	require.NoError(t, err)

	require.Greater(t, len(gotAuth), len("Bearer "))
	claims, _, err := auth.ParseToken(gotAuth[len("Bearer "):], "def", now)
	require.NoError(t, err)
	assert.Equal(t, "abc", claims.APIKey)
}

func TestNewClient_RequiresTokenSource(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{}, nil, nil)
	require.Error(t, err)
}

func TestNewClient_AppliesDefaults(t *testing.T) {
	t.Parallel()

	c, err := NewClient(Config{Timeout: 30 * time.Second}, staticTokens{token: "t"}, nil)
	require.NoError(t, err)

	cfg := c.Config()
	assert.Equal(t, defaultEndpoint, cfg.Endpoint)
	assert.Equal(t, defaultModel, cfg.Model)
	assert.InDelta(t, 0.7, cfg.Temperature, 1e-9)
	assert.InDelta(t, 0.7, cfg.TopP, 1e-9)
	assert.Equal(t, 30*time.Second, c.httpClient.Timeout)
}
