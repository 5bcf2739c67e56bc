package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"airlogx/datalog"
	"airlogx/sensors"
)

// configuration structure

type Config struct {
	DeviceKind string `json:"device_kind"` // "file" or "i2c"

	ImagePath string `json:"image_path"`

	I2CBus byte `json:"i2c_bus"`

	Source string `json:"source"` // "sim", "board" or "remote"

	Remote sensors.RemoteConfig `json:"remote"`

	SampleIntervalSeconds int `json:"sample_interval_seconds"`

	ProjectName string `json:"project_name"`

	ProjectSubject string `json:"project_subject"`

	Fields []string `json:"fields"` // column titles to log; empty means all

	TemperatureUnit string `json:"temperature_unit"` // "C" or "F"

	PressureUnit string `json:"pressure_unit"` // "Pa" or "mBar"

	Separator string `json:"separator"` // "semicolon", "tab", "comma" or "space"

	QueryBind string `json:"query_bind"`

	ResponseBind string `json:"response_bind"`

	BuffredChanSize int `json:"buffred_chan_size"`

	IsProductionEnvironment bool `json:"is_production_environment"`
}

// config instance
var (
	config *Config // for load all the config vars

	configOnce sync.Once
)

const defaultConfigPath = "./config/config.json"

// LoadConfig reads the config file once. AIRLOGX_CONFIG overrides the path.
func LoadConfig() error {

	var loadErr error

	configOnce.Do(func() {

		loadErr = loadConfig()

	})

	return loadErr
}

func loadConfig() error {

	configPath := os.Getenv("AIRLOGX_CONFIG")

	if configPath == "" {

		configPath = defaultConfigPath

	}

	data, err := os.ReadFile(configPath)

	if err != nil {

		log.Printf("Error loading config from %s: %v", configPath, err)

		return err

	}

	config = &Config{}

	if err := json.Unmarshal(data, config); err != nil {

		log.Printf("Error unmarshaling config file: %v", err)

		return err

	}

	applyDefaults(config)

	return nil
}

func applyDefaults(c *Config) {

	if c.DeviceKind == "" {

		c.DeviceKind = "file"

	}

	if c.ImagePath == "" {

		c.ImagePath = "./storage/eeprom.img"

	}

	if c.Source == "" {

		c.Source = "sim"

	}

	if c.SampleIntervalSeconds <= 0 {

		c.SampleIntervalSeconds = 10

	}

	if c.QueryBind == "" {

		c.QueryBind = "tcp://*:8008"

	}

	if c.ResponseBind == "" {

		c.ResponseBind = "tcp://*:8009"

	}

	if c.BuffredChanSize <= 0 {

		c.BuffredChanSize = 100

	}
}

func GetDeviceKind() string {

	return config.DeviceKind

}

func GetImagePath() string {

	return config.ImagePath

}

func GetI2CBus() byte {

	return config.I2CBus

}

func GetSource() string {

	return config.Source

}

func GetRemoteConfig() sensors.RemoteConfig {

	return config.Remote

}

func GetSampleIntervalSeconds() int {

	return config.SampleIntervalSeconds

}

func GetProjectName() string {

	return config.ProjectName

}

func GetProjectSubject() string {

	return config.ProjectSubject

}

func GetQueryBind() string {

	return config.QueryBind

}

func GetResponseBind() string {

	return config.ResponseBind

}

func GetBufferredChanSize() int {

	return config.BuffredChanSize

}

func IsProductionEnvironment() bool {

	return config != nil && config.IsProductionEnvironment

}

// LogConfig converts the file level settings into the logger's field
// inclusion config.
func LogConfig() (datalog.Config, error) {

	cfg := datalog.DefaultConfig()

	if len(config.Fields) > 0 {

		for f := range cfg.Include {

			cfg.Include[f] = false

		}

		for _, name := range config.Fields {

			f, err := datalog.FieldByName(name)

			if err != nil {

				return cfg, err

			}

			cfg.Include[f] = true
		}
	}

	switch config.TemperatureUnit {

	case "", "C":

		cfg.TempUnit = datalog.UnitCelsius

	case "F":

		cfg.TempUnit = datalog.UnitFahrenheit

	default:

		return cfg, fmt.Errorf("unknown temperature unit %q", config.TemperatureUnit)

	}

	switch config.PressureUnit {

	case "", "Pa":

		cfg.PressUnit = datalog.UnitPascals

	case "mBar":

		cfg.PressUnit = datalog.UnitMillibar

	default:

		return cfg, fmt.Errorf("unknown pressure unit %q", config.PressureUnit)

	}

	switch config.Separator {

	case "", "semicolon":

		cfg.Delimiter = datalog.SeparatorSemicolon

	case "tab":

		cfg.Delimiter = datalog.SeparatorTab

	case "comma":

		cfg.Delimiter = datalog.SeparatorComma

	case "space":

		cfg.Delimiter = datalog.SeparatorSpace

	default:

		return cfg, fmt.Errorf("unknown separator %q", config.Separator)

	}

	return cfg, nil
}
