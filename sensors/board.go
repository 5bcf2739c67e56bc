package sensors

import (
	"fmt"
	"time"

	"github.com/kidoman/embd"
	"github.com/kidoman/embd/sensor/bh1750fvi"
	"github.com/kidoman/embd/sensor/bmp180"

	"airlogx/models"
)

// BoardSource reads the chips on the bus: a BMP180 for temperature and
// pressure and a BH1750FVI for ambient light. Humidity, IAQ and eCO2 have
// no chip here and always report zero; the daemon drops those columns when
// this source is active.
type BoardSource struct {
	baro *bmp180.BMP180

	light *bh1750fvi.BH1750FVI
}

func NewBoardSource(bus embd.I2CBus) (*BoardSource, error) {

	baro := bmp180.New(bus)

	// fail fast if the chip is not answering
	if _, err := baro.Temperature(); err != nil {

		return nil, fmt.Errorf("bmp180 not responding: %v", err)

	}

	light := bh1750fvi.New(bh1750fvi.High, bus)

	return &BoardSource{

		baro: baro,

		light: light,
	}, nil
}

func (s *BoardSource) Read() (models.Readings, error) {

	var r models.Readings

	temp, err := s.baro.Temperature()

	if err != nil {

		return r, fmt.Errorf("failed to read temperature: %v", err)

	}

	r.Temperature = int(temp)

	pressure, err := s.baro.Pressure()

	if err != nil {

		return r, fmt.Errorf("failed to read pressure: %v", err)

	}

	// chip reports hPa
	r.Pressure = pressure * 100

	lux, err := s.light.Lighting()

	if err != nil {

		return r, fmt.Errorf("failed to read light level: %v", err)

	}

	r.Light = clampLight(int(lux / 4))

	stampReadings(&r, time.Now())

	return r, nil
}

// clampLight maps a lux derived value onto the board's 0..255 scale.
func clampLight(v int) int {

	if v < 0 {

		return 0

	}

	if v > 255 {

		return 255

	}

	return v
}

func (s *BoardSource) Close() {

	s.baro.Close()

	s.light.Close()

}
