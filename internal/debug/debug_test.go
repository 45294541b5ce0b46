package debug

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogf(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Logf("loaded %d prompts", 3)

	assert.True(t, Enabled())
	assert.Contains(t, buf.String(), "[DEBUG ")
	assert.Contains(t, buf.String(), "] loaded 3 prompts\n")
}
