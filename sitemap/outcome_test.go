package sitemap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		outcome  Outcome
		explicit int
		wantCode int
		wantMode Mode
	}{
		{
			name:     "failure resolves to 500 error",
			outcome:  Failed(errors.New("boom")),
			wantCode: 500,
			wantMode: ModeError,
		},
		{
			name:     "zero outcome resolves to 500 error",
			outcome:  Outcome{},
			wantCode: 500,
			wantMode: ModeError,
		},
		{
			name:     "explicit response code wins",
			outcome:  Done(),
			explicit: 404,
			wantCode: 404,
			wantMode: ModeError,
		},
		{
			name:     "explicit code wins over numeric hint",
			outcome:  DoneCode(302),
			explicit: 404,
			wantCode: 404,
			wantMode: ModeError,
		},
		{
			name:     "numeric hint becomes the code",
			outcome:  DoneCode(302),
			wantCode: 302,
			wantMode: ModeRedirect,
		},
		{
			name:     "plain success defaults to 200",
			outcome:  Done(),
			wantCode: 200,
			wantMode: ModeSuccess,
		},
		{
			name:     "hint below 100 is not a code",
			outcome:  DoneCode(5),
			wantCode: 200,
			wantMode: ModeSuccess,
		},
		{
			name:     "informational code is unclassified",
			outcome:  DoneCode(101),
			wantCode: 101,
			wantMode: ModeUnclassified,
		},
		{
			name:     "out of range code is unclassified",
			outcome:  DoneCode(799),
			wantCode: 799,
			wantMode: ModeUnclassified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, mode := resolve(tt.outcome, tt.explicit)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantMode, mode)
		})
	}
}

func TestOutcome(t *testing.T) {
	t.Run("done is ok", func(t *testing.T) {
		assert.True(t, Done().OK())
		assert.NoError(t, Done().Err())
	})

	t.Run("failed carries detail", func(t *testing.T) {
		err := errors.New("db unreachable")
		o := Failed(err)
		assert.False(t, o.OK())
		assert.Equal(t, err, o.Err())
	})

	t.Run("zero outcome is not ok", func(t *testing.T) {
		var o Outcome
		assert.False(t, o.OK())
	})
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "success", ModeSuccess.String())
	assert.Equal(t, "redirect", ModeRedirect.String())
	assert.Equal(t, "error", ModeError.String())
	assert.Equal(t, "unclassified", ModeUnclassified.String())
	assert.Equal(t, "unknown", Mode(0).String())
}
