// Package export writes event standings out of the service: as a CSV
// download and into a Google Sheets results tab.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"race-events/models"
)

var standingsHeader = []string{
	"position", "participant", "car", "laps", "best_lap", "average_lap", "total_time",
}

func standingRow(s models.Standing) []string {
	return []string{
		strconv.Itoa(s.Position),
		s.ParticipantName,
		s.CarInfo,
		strconv.Itoa(s.TotalLaps),
		s.BestLapTime,
		s.AverageLapTime,
		s.TotalTime,
	}
}

// WriteCSV writes the header and one row per classified entry.
func WriteCSV(w io.Writer, st models.EventStandings) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(standingsHeader); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for _, s := range st.Results {
		if err := cw.Write(standingRow(s)); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

// CSVFilename names the download for an event.
func CSVFilename(st models.EventStandings) string {
	return "results_event_" + strconv.FormatInt(st.EventID, 10) + ".csv"
}
