package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, env := range []string{"development", "production", ""} {
		t.Run("env="+env, func(t *testing.T) {
			logger, err := New(env)
			require.NoError(t, err)
			require.NotNil(t, logger)
			assert.NotPanics(t, func() { logger.Info("startup") })
		})
	}
}
