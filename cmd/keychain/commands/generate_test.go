package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunGeneratePrintsCredentials(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	var out bytes.Buffer
	err := RunGenerate(context.Background(), IOTuple{Writer: &out})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "KEYCHAIN_UUID=")
	assert.Contains(t, out.String(), "KEYCHAIN_KEY=")
	assert.Contains(t, out.String(), "MASTER_KEY=")
}
