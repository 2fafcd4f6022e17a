package shutdown

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/MainbaseT/sol2uml/internal/logger"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ListenForShutdown(t *testing.T) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.Nil(t, err)

	t.Run("Test handler gets a deadline", func(t *testing.T) {
		sigs := make(chan os.Signal, 1)
		sigs <- syscall.SIGTERM

		var deadline time.Time
		err := ListenForShutdown(sigs, func(ctx context.Context) error {
			deadline, _ = ctx.Deadline()
			return nil
		}, time.Second, l)

		assert.Nil(t, err)
		assert.False(t, deadline.IsZero())
	})
	t.Run("Test handler error is returned", func(t *testing.T) {
		sigs := make(chan os.Signal, 1)
		sigs <- syscall.SIGINT

		handlerErr := errors.New("server did not stop")
		err := ListenForShutdown(sigs, func(ctx context.Context) error {
			return handlerErr
		}, time.Second, l)

		assert.True(t, errors.Is(err, handlerErr))
	})
}
