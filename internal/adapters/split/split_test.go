package split_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/memo/internal/adapters/split"
)

func TestSplit_OrderAndText(t *testing.T) {
	exprs, err := split.New().Split("x <- 1\ny <- x + 1\nsum(1:10)")
	require.NoError(t, err)
	require.Len(t, exprs, 3)

	assert.Equal(t, "x <- 1", exprs[0].Text)
	assert.Equal(t, "y <- x + 1", exprs[1].Text)
	assert.Equal(t, "sum(1:10)", exprs[2].Text)
	assert.Equal(t, 1, exprs[0].Line)
	assert.Equal(t, 2, exprs[1].Line)
}

func TestSplit_ParseErrorIsPerStatement(t *testing.T) {
	exprs, err := split.New().Split("x <- 1\ny <- * 2\nz <- 2")
	require.NoError(t, err)
	require.Len(t, exprs, 3)

	assert.Nil(t, exprs[1].Node)
	assert.Error(t, exprs[1].ParseErr, "the malformed statement carries its parse error")
	assert.Equal(t, "y <- * 2", exprs[1].Text)

	// Statements around the failure still parse.
	assert.NotNil(t, exprs[0].Node)
	assert.NoError(t, exprs[0].ParseErr)
	assert.NotNil(t, exprs[2].Node)
	assert.Equal(t, "z <- 2", exprs[2].Text)
}

func TestSplit_EmptySource(t *testing.T) {
	exprs, err := split.New().Split("")
	require.NoError(t, err)
	assert.Empty(t, exprs)
}
