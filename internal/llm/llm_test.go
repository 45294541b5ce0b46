package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessTextOutput(t *testing.T) {
	var lines []string
	out := ProcessTextOutput(strings.NewReader("one\ntwo"), InvokeOptions{
		OnOutput: func(text string) { lines = append(lines, text) },
	})

	assert.Equal(t, "one\ntwo\n", out)
	assert.Equal(t, []string{"one\n", "two\n"}, lines)
}

func TestFilterEnv(t *testing.T) {
	env := []string{"PATH=/bin", "ANTHROPIC_API_KEY=secret", "HOME=/root", "ANTHROPIC_API_KEYX=keep"}
	got := FilterEnv(env, "ANTHROPIC_API_KEY=")
	assert.Equal(t, []string{"PATH=/bin", "HOME=/root", "ANTHROPIC_API_KEYX=keep"}, got)
}

func TestFake(t *testing.T) {
	fake := NewFake("first", "second")
	ctx := context.Background()

	res, err := fake.Invoke(ctx, "p1", InvokeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "first", res.Text)

	res, err = fake.Invoke(ctx, "p2 decision", InvokeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "second", res.Text)

	_, err = fake.Invoke(ctx, "p3", InvokeOptions{})
	require.Error(t, err)

	assert.Equal(t, 3, fake.Calls())
	p, ok := fake.PromptContaining("decision")
	assert.True(t, ok)
	assert.Equal(t, "p2 decision", p)
}

func TestFake_ErrAndCancel(t *testing.T) {
	boom := errors.New("boom")
	fake := NewFake("unused")
	fake.Err = boom

	_, err := fake.Invoke(context.Background(), "p", InvokeOptions{})
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewFake("x").Invoke(ctx, "p", InvokeOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInvokerFunc(t *testing.T) {
	var inv Invoker = InvokerFunc(func(_ context.Context, prompt string, _ InvokeOptions) (*InvokeResult, error) {
		return &InvokeResult{Text: strings.ToUpper(prompt)}, nil
	})
	res, err := inv.Invoke(context.Background(), "hi", InvokeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "HI", res.Text)
}
