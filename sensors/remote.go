package sensors

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"airlogx/models"
)

// RemoteConfig describes the gateway host that fronts the sensors when they
// are not on the local bus.
type RemoteConfig struct {
	Host string `json:"host"`

	Port int `json:"port"`

	Username string `json:"username"`

	Password string `json:"password"`

	SSHKey string `json:"ssh_key"`
}

// RemoteSource reads Linux IIO sysfs values from a gateway over SSH. Each
// Read runs a handful of cat commands; a value that fails to read or parse
// falls back to zero so one flaky channel does not lose the whole record.
type RemoteSource struct {
	client *ssh.Client
}

// sysfs files under the gateway's IIO device, raw units per the IIO ABI
const (
	tempPath = "/sys/bus/iio/devices/iio:device0/in_temp_input" // millidegree C

	pressurePath = "/sys/bus/iio/devices/iio:device0/in_pressure_input" // kPa

	humidityPath = "/sys/bus/iio/devices/iio:device0/in_humidityrelative_input" // milli-percent

	lightPath = "/sys/bus/iio/devices/iio:device1/in_illuminance_raw"
)

func NewRemoteSource(cfg RemoteConfig) (*RemoteSource, error) {

	var authMethods []ssh.AuthMethod

	if cfg.Password != "" {

		authMethods = append(authMethods, ssh.Password(cfg.Password))

	}

	if cfg.SSHKey != "" {

		key, err := os.ReadFile(cfg.SSHKey)

		if err == nil {

			signer, err := ssh.ParsePrivateKey(key)

			if err == nil {
				authMethods = append(authMethods, ssh.PublicKeys(signer))
			}

		}
	}

	clientConfig := &ssh.ClientConfig{

		User: cfg.Username,

		Auth: authMethods,

		HostKeyCallback: ssh.InsecureIgnoreHostKey(),

		Timeout: time.Second * 10,
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	client, err := ssh.Dial("tcp", addr, clientConfig)

	if err != nil {

		return nil, fmt.Errorf("failed to connect to sensor gateway %s: %v", addr, err)

	}

	return &RemoteSource{client: client}, nil
}

func (s *RemoteSource) Read() (models.Readings, error) {

	var r models.Readings

	if v, err := s.readValue(tempPath); err == nil {

		r.Temperature = int(v / 1000)

	} else {

		log.Printf("Error reading remote temperature: %v", err)

	}

	if v, err := s.readValue(pressurePath); err == nil {

		r.Pressure = int(v * 1000)

	} else {

		log.Printf("Error reading remote pressure: %v", err)

	}

	if v, err := s.readValue(humidityPath); err == nil {

		r.Humidity = int(v / 1000)

	} else {

		log.Printf("Error reading remote humidity: %v", err)

	}

	if v, err := s.readValue(lightPath); err == nil {

		r.Light = clampLight(int(v))

	} else {

		log.Printf("Error reading remote light level: %v", err)

	}

	stampReadings(&r, time.Now())

	return r, nil
}

func (s *RemoteSource) readValue(path string) (float64, error) {

	out, err := s.runCommand("cat " + path)

	if err != nil {

		return 0, err

	}

	return strconv.ParseFloat(strings.TrimSpace(out), 64)
}

func (s *RemoteSource) runCommand(cmd string) (string, error) {

	session, err := s.client.NewSession()

	if err != nil {
		return "", err
	}

	defer session.Close()

	output, err := session.CombinedOutput(cmd)

	if err != nil {
		return "", err
	}

	return string(output), nil
}

func (s *RemoteSource) Close() error {

	return s.client.Close()

}
