package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	t.Run("matches outer code", func(t *testing.T) {
		err := New(CodeNotFound, "decision not found")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeConflict))
	})

	t.Run("matches through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("load decision: %w", New(CodeNotFound, "decision not found"))
		assert.True(t, HasCode(err, CodeNotFound))
	})

	t.Run("matches nested domain errors", func(t *testing.T) {
		inner := New(CodeUnavailable, "store down")
		outer := Wrap(inner, CodeInternal, "save decision")
		assert.True(t, HasCode(outer, CodeInternal))
		assert.True(t, HasCode(outer, CodeUnavailable))
	})

	t.Run("foreign errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})
}
