package sampler

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"airlogx/datalog"
	"airlogx/eeprom"
	"airlogx/sensors"
)

func TestSamplerLogsUntilShutdown(t *testing.T) {

	dev, err := eeprom.NewFileDevice(filepath.Join(t.TempDir(), "eeprom.img"))

	if err != nil {
		t.Fatalf("Failed to create device: %v", err)
	}

	defer dev.Close()

	lg := datalog.New(dev, datalog.DefaultConfig(), nil)

	shutdown := make(chan struct{})

	var wg sync.WaitGroup

	wg.Add(1)

	go Run(lg, sensors.NewSimSource(), time.Millisecond, shutdown, &wg, zap.NewNop())

	// let a few ticks land
	time.Sleep(100 * time.Millisecond)

	close(shutdown)

	wg.Wait()

	count, full, err := lg.Count()

	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	if count == 0 {
		t.Error("sampler logged nothing")
	}

	if full {
		t.Error("store unexpectedly full")
	}

	// after shutdown nothing more is written
	resting, _, _ := lg.Count()

	time.Sleep(20 * time.Millisecond)

	again, _, _ := lg.Count()

	if again != resting {
		t.Errorf("count moved after shutdown: %d -> %d", resting, again)
	}
}
