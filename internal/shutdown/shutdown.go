package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func CreateGracefulShutdownChannel() chan os.Signal {
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGTERM, syscall.SIGINT)

	return gracefulShutdown
}

// ListenForShutdown blocks until a termination signal arrives, then gives the
// handler at most timeToWait to stop whatever it is running.
func ListenForShutdown(
	signalChan chan os.Signal,
	signalHandler func(ctx context.Context) error,
	timeToWait time.Duration,
	l *zap.Logger,
) error {
	sig := <-signalChan
	l.Sugar().Infof("caught signal %v", sig)

	ctx, cancel := context.WithTimeout(context.Background(), timeToWait)
	defer cancel()

	if err := signalHandler(ctx); err != nil {
		l.Sugar().Errorw("Failed to shut down cleanly", zap.Error(err))
		return err
	}

	l.Sugar().Infof("Exiting")
	return nil
}
