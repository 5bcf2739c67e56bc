package sensors

import (
	"time"

	"airlogx/models"
)

// Source produces one current snapshot per call. The logger never triggers
// reads itself; the sampler pulls from a Source and hands the snapshot over.
type Source interface {
	Read() (models.Readings, error)
}

// date and time layouts the record formatter expects, matching the board's
// RTC rendering
const (
	dateLayout = "02/01/06"

	timeLayout = "15:04:05"
)

func stampReadings(r *models.Readings, now time.Time) {

	r.Date = now.Format(dateLayout)

	r.Time = now.Format(timeLayout)

}
