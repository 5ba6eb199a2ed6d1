package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetCount(t *testing.T) {
	b, err := NewBudget(100)
	require.NoError(t, err)

	assert.Equal(t, tokensPerMessage, b.Count(""))
	short := b.Count("hello world")
	assert.Greater(t, short, tokensPerMessage)
	assert.Equal(t, 2*short, b.Count("hello world", "hello world"))
}

func TestBudgetCheck(t *testing.T) {
	b, err := NewBudget(50)
	require.NoError(t, err)

	assert.NoError(t, b.Check("a short system prompt", "a short window"))

	err = b.Check(strings.Repeat("token ", 200))
	assert.ErrorIs(t, err, ErrInputTooLarge)
	assert.ErrorContains(t, err, "limit 50")
}
