package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		iteration int
		wantExit  bool
	}{
		{name: "within limit", cfg: Config{MaxIterations: 3}, iteration: 3},
		{name: "over limit", cfg: Config{MaxIterations: 3}, iteration: 4, wantExit: true},
		{name: "zero uses default", cfg: Config{}, iteration: DefaultMaxIterations},
		{name: "zero uses default over", cfg: Config{}, iteration: DefaultMaxIterations + 1, wantExit: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewState()
			s.Iteration = tc.iteration
			res := Check(tc.cfg, s)
			assert.Equal(t, tc.wantExit, res.ShouldExit)
			if tc.wantExit {
				assert.Equal(t, ExitReasonMaxIterations, res.Reason)
				assert.Contains(t, res.Message, "Maximum iterations reached")
			}
		})
	}
}

func TestRecordAction(t *testing.T) {
	s := NewState()
	s.RecordAction(true, "b.go")
	s.RecordAction(false, "")
	s.RecordAction(true, "a.go")
	s.RecordAction(true, "b.go")

	assert.Equal(t, 1, s.FailedActions)
	assert.Equal(t, []string{"b.go", "a.go"}, s.FilesTouched())
}
