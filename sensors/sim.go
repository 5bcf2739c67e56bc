package sensors

import (
	"sync"
	"time"

	"airlogx/models"
)

// SimSource fabricates plausible readings without any hardware. Values walk
// a fixed cycle so consecutive records differ but runs stay reproducible.
type SimSource struct {
	mu sync.Mutex

	step int

	now func() time.Time
}

func NewSimSource() *SimSource {

	return &SimSource{now: time.Now}

}

func (s *SimSource) Read() (models.Readings, error) {

	s.mu.Lock()

	defer s.mu.Unlock()

	step := s.step

	s.step++

	r := models.Readings{

		Temperature: 19 + step%8,

		Pressure: 100800 + (step%40)*25,

		Humidity: 40 + step%20,

		IAQ: 80 + step%40,

		ECO2: 400 + (step%30)*10,

		Light: (step * 13) % 256,
	}

	stampReadings(&r, s.now())

	return r, nil
}
