package logging_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxn4chemistry/rxn-availability/internal/infrastructure/monitoring/logging"
)

func TestNew_ValidConfig(t *testing.T) {
	logger, err := logging.New(logging.Config{
		Level:       "debug",
		Format:      "console",
		OutputPaths: []string{"stderr"},
	})
	require.NoError(t, err)
	require.NotNil(t, logger)

	// Must not panic with a mix of field types.
	logger.Debug("query",
		logging.String("smiles", "CCO"),
		logging.Int("atoms", 3),
		logging.Float64("threshold", 50),
		logging.Bool("available", true),
		logging.Duration("elapsed", time.Millisecond),
		logging.Any("extra", map[string]int{"x": 1}),
	)
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	logger, err := logging.New(logging.Config{Level: "shouting", Format: "json"})
	require.NoError(t, err)
	logger.Info("still operational")
}

func TestNew_InvalidOutputPath(t *testing.T) {
	_, err := logging.New(logging.Config{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{"bogus-scheme://nowhere"},
	})
	assert.Error(t, err)
}

func TestLogger_WithAndNamed(t *testing.T) {
	logger, err := logging.New(logging.Config{Level: "info", Format: "json", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)

	child := logger.Named("availability").With(logging.String("catalog", "emolecules"))
	require.NotNil(t, child)
	child.Info("connected")
}

func TestNewNop(t *testing.T) {
	logger := logging.NewNop()
	logger.Info("dropped", logging.Err(nil))
	logger.Named("sub").Warn("dropped too")
}
