package anthropic

import (
	"context"
	"errors"
	"testing"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-akhmetov/codeagent/internal/llm"
)

type stubClient struct {
	req  anthropic.MessagesRequest
	resp anthropic.MessagesResponse
	err  error
}

func (s *stubClient) CreateMessages(_ context.Context, req anthropic.MessagesRequest) (anthropic.MessagesResponse, error) {
	s.req = req
	return s.resp, s.err
}

func textBlock(s string) anthropic.MessageContent {
	return anthropic.MessageContent{Type: anthropic.MessagesContentTypeText, Text: &s}
}

func TestInvoke(t *testing.T) {
	stub := &stubClient{resp: anthropic.MessagesResponse{
		Content: []anthropic.MessageContent{textBlock("tool: finish\n"), textBlock("reason: done")},
	}}
	inv := newWithClient(stub, Config{Model: "claude-sonnet-4-5"})

	var streamed string
	res, err := inv.Invoke(context.Background(), "decide", llm.InvokeOptions{
		OnOutput: func(text string) { streamed += text },
	})
	require.NoError(t, err)

	assert.Equal(t, "tool: finish\nreason: done", res.Text)
	assert.Equal(t, res.Text, streamed)
	assert.Equal(t, anthropic.Model("claude-sonnet-4-5"), stub.req.Model)
	assert.Equal(t, DefaultMaxTokens, stub.req.MaxTokens)
	require.Len(t, stub.req.Messages, 1)
	assert.Equal(t, anthropic.RoleUser, stub.req.Messages[0].Role)
}

func TestInvokeErrors(t *testing.T) {
	t.Run("transport error", func(t *testing.T) {
		inv := newWithClient(&stubClient{err: errors.New("dial tcp: refused")}, Config{})
		_, err := inv.Invoke(context.Background(), "x", llm.InvokeOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "anthropic request")
	})

	t.Run("empty content", func(t *testing.T) {
		inv := newWithClient(&stubClient{}, Config{})
		_, err := inv.Invoke(context.Background(), "x", llm.InvokeOptions{})
		assert.ErrorIs(t, err, llm.ErrEmptyResponse)
	})
}

func TestNew_MissingKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	inv, err := New(Config{APIKey: "k", MaxTokens: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, inv.max)
}
