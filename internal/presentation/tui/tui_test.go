package tui

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "0.3.0\n")
	assert.Contains(t, buf.String(), "v0.3.0")
	assert.Contains(t, buf.String(), "|_|_| |_|")
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer()
	out, err := render("**Heads up**: take with food")
	require.NoError(t, err)
	assert.Contains(t, out, "Heads up")
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(nil))

	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTerminal(f))
}
