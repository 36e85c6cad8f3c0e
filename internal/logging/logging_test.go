package logging_test

import (
	"testing"

	"github.com/jrsteele09/go-maint-dashboard/internal/logging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSetup_Levels(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	logging.Setup("PROD", "debug")
	require.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	logging.Setup("DEV", "WARN")
	require.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	logging.Setup("DEV", "chatty")
	require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
