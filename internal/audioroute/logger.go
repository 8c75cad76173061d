package audioroute

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Watch logs every change from src until ctx is done or src closes its
// channel. It returns ctx.Err() in the first case and nil in the second.
func Watch(ctx context.Context, src Source, logger *logrus.Logger) error {
	if logger == nil {
		logger = logrus.New()
	}

	events := src.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case change, ok := <-events:
			if !ok {
				logger.Debug("Audio route source closed")
				return nil
			}
			logChange(logger, change)
		}
	}
}

func logChange(logger *logrus.Logger, change RouteChange) {
	logger.WithField("reason_code", uint(change.Reason)).
		Infof("Route change occurred with reason: %s", change.Reason)

	if len(change.Previous) > 0 {
		logger.Infof("Audio session previous route output: %s", change.Previous[0])
	}
	if len(change.Current) > 0 {
		logger.Infof("Audio session current route output: %s", change.Current[0])
	}
}
