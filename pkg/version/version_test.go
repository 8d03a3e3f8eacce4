package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/assemblyline/pkg/version"
)

func TestString(t *testing.T) {
	t.Parallel()

	out := version.String()

	assert.Contains(t, out, "assemblyline ")
	assert.Contains(t, out, "commit: ")
	assert.Contains(t, out, "built: ")
}
