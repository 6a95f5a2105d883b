package fetch_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/webup/pkg/errors"
	"github.com/arthur-debert/webup/pkg/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner(t *testing.T) {
	r := fetch.NewExecRunner()
	dir := t.TempDir()

	res, err := r.Run(context.Background(), dir, "sh", "-c", "pwd")
	require.NoError(t, err)
	assert.Contains(t, res.Stdout, dir)
	assert.Equal(t, 0, res.ExitCode)

	res, err = r.Run(context.Background(), dir, "sh", "-c", "echo nope >&2; exit 3")
	require.Error(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "nope\n", res.Stderr)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCommand))
	assert.Equal(t, "nope", errors.GetErrorDetails(err)["stderr"])
}
