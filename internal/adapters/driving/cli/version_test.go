package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_PrintsVersion(t *testing.T) {
	old := version
	version = "9.9.9"
	defer func() { version = old }()

	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "docchat version 9.9.9")
}
