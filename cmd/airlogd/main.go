package main

import (
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/kidoman/embd"
	_ "github.com/kidoman/embd/host/all"

	"airlogx/datalog"
	"airlogx/eeprom"
	"airlogx/models"
	"airlogx/sampler"
	"airlogx/sensors"
	"airlogx/server"
	. "airlogx/utils"
)

func main() {

	if err := LoadConfig(); err != nil {

		log.Println("Error loading config:", err)

		return

	}

	if err := InitLogger(); err != nil {

		log.Println("Error initializing logger:", err)

		return

	}

	defer Logger.Sync()

	dev, err := openDevice()

	if err != nil {

		log.Println("Error opening eeprom device:", err)

		return

	}

	defer dev.Close()

	cfg, err := LogConfig()

	if err != nil {

		log.Println("Error in log config:", err)

		return

	}

	src, err := openSource()

	if err != nil {

		log.Println("Error opening sensor source:", err)

		return

	}

	lg := datalog.New(dev, cfg, Logger)

	// the board chips have no humidity or gas channel
	if GetSource() == "board" {

		lg.IncludeField(datalog.FieldHumidity, false)

		lg.IncludeField(datalog.FieldIAQ, false)

		lg.IncludeField(datalog.FieldECO2, false)

	}

	if err := lg.SetProjectInfo(GetProjectName(), GetProjectSubject()); err != nil {

		log.Println("Error writing project info:", err)

		return

	}

	queries := make(chan models.Query, GetBufferredChanSize())

	results := make(chan models.QueryResponse, GetBufferredChanSize())

	shutdown := make(chan struct{})

	var wg sync.WaitGroup

	wg.Add(4)

	go server.InitQueryListener(GetQueryBind(), queries, shutdown, &wg)

	go server.InitDumpEngine(lg, queries, results, &wg)

	go server.InitQueryResponser(GetResponseBind(), results, &wg)

	interval := time.Duration(GetSampleIntervalSeconds()) * time.Second

	go sampler.Run(lg, src, interval, shutdown, &wg, Logger)

	go initProfiling()

	// block until asked to stop
	signals := make(chan os.Signal, 1)

	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	<-signals

	log.Println("Shutting down...")

	close(shutdown)

	wg.Wait()
}

func openDevice() (eeprom.Device, error) {

	switch GetDeviceKind() {

	case "i2c":

		return eeprom.NewI2CDevice(embd.NewI2CBus(GetI2CBus())), nil

	default:

		if err := os.MkdirAll(filepath.Dir(GetImagePath()), 0755); err != nil {

			return nil, err

		}

		return eeprom.NewFileDevice(GetImagePath())

	}
}

func openSource() (sensors.Source, error) {

	switch GetSource() {

	case "board":

		return sensors.NewBoardSource(embd.NewI2CBus(GetI2CBus()))

	case "remote":

		return sensors.NewRemoteSource(GetRemoteConfig())

	default:

		return sensors.NewSimSource(), nil

	}
}

func initProfiling() {

	err := http.ListenAndServe("localhost:1234", nil)

	if err != nil {

		log.Println("Error starting profiling:", err)

	}
}
