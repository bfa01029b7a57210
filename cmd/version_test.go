package cmd

import (
	"bytes"
	"testing"

	"github.com/compozy/ghrelease/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	t.Run("Should print build information", func(t *testing.T) {
		var out bytes.Buffer
		cmd := newVersionCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{})
		require.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "Version:\t"+safeValue(version.Version, "dev"))
		assert.Contains(t, out.String(), "Commit:\t")
	})
	t.Run("Should fall back for blank values", func(t *testing.T) {
		assert.Equal(t, "dev", safeValue("  ", "dev"))
		assert.Equal(t, "v1.2.3", safeValue(" v1.2.3 ", "dev"))
	})
}
