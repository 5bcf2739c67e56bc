package sampler

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"airlogx/datalog"
	"airlogx/sensors"
)

// Run takes one snapshot per interval and appends it to the log until
// shutdown closes. Read failures skip the tick; write failures are logged
// and the loop carries on, because a flaky bus should not stop the session.
func Run(lg *datalog.Logger, src sensors.Source, interval time.Duration, shutdown <-chan struct{}, wg *sync.WaitGroup, zl *zap.Logger) {

	defer wg.Done()

	ticker := time.NewTicker(interval)

	defer ticker.Stop()

	zl.Info("sampler started", zap.Duration("interval", interval))

	for {

		select {

		case <-shutdown:

			zl.Info("sampler shutting down")

			return

		case <-ticker.C:

			readings, err := src.Read()

			if err != nil {

				zl.Warn("sensor read failed, skipping tick", zap.Error(err))

				continue

			}

			if err := lg.LogData(readings); err != nil {

				zl.Error("failed to log record", zap.Error(err))

			}
		}
	}
}
