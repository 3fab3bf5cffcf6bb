package icron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Validate("@every 5m"))
	assert.NoError(t, Validate("*/10 * * * *"))
	assert.Error(t, Validate("not a schedule"))
	assert.Error(t, Validate(""))
}

func TestNextRun(t *testing.T) {
	t.Parallel()

	ref := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	next, err := NextRun("@every 5m", ref)
	require.NoError(t, err)
	assert.Equal(t, ref.Add(5*time.Minute), next)

	next, err = NextRun("0 * * * *", ref)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC), next)

	_, err = NextRun("bogus", ref)
	require.Error(t, err)
}
