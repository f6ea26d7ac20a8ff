package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductionBuildsLogger(t *testing.T) {
	l, err := New(Options{})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewDevelopmentBuildsLogger(t *testing.T) {
	l, err := New(Options{Development: true})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNopDiscardsWithoutPanicking(t *testing.T) {
	l := Nop()
	require.NotNil(t, l)
	l.Info("discarded")
}
