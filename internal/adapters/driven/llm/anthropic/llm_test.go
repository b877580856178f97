package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
)

func TestNewLLMService(t *testing.T) {
	_, err := NewLLMService(Config{})
	require.Error(t, err)

	svc, err := NewLLMService(Config{APIKey: "key"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.NoError(t, svc.Close())
}

func TestChat_SystemMessagesBecomeSystemPrompt(t *testing.T) {
	var got messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"검토 "},{"type":"text","text":"의견"}],"stop_reason":"end_turn"}`))
	}))
	defer srv.Close()

	svc, err := NewLLMService(Config{APIKey: "key", BaseURL: srv.URL})
	require.NoError(t, err)

	out, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "공통 규칙"},
		{Role: driven.RoleSystem, Content: "작성 지시"},
		{Role: driven.RoleUser, Content: "질의"},
	}, driven.ChatOptions{JSON: true})
	require.NoError(t, err)

	assert.Equal(t, "검토 의견", out)
	assert.Equal(t, "공통 규칙\n\n작성 지시", got.System)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
}

func TestChat_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"api error", http.StatusBadRequest, `{"error":{"type":"invalid_request_error","message":"max_tokens too large"}}`, "max_tokens too large"},
		{"overloaded", http.StatusServiceUnavailable, `overloaded`, "status 503"},
		{"empty content", http.StatusOK, `{"content":[]}`, "no response content"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			svc, err := NewLLMService(Config{APIKey: "key", BaseURL: srv.URL})
			require.NoError(t, err)
			_, err = svc.Chat(context.Background(), []driven.ChatMessage{{Role: driven.RoleUser, Content: "q"}}, driven.ChatOptions{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
