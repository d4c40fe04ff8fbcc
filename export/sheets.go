package export

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"

	"race-events/models"
)

// Sheets appends published standings to one tab of a spreadsheet. Each
// publication is a block: a title row, the header and the classified rows.
type Sheets struct {
	srv           *sheetsv4.Service
	spreadsheetID string
	sheet         string
}

func NewSheets(ctx context.Context, serviceAccountJSONPath, spreadsheetID, sheet string) (*Sheets, error) {
	if _, err := os.Stat(serviceAccountJSONPath); err != nil {
		return nil, errors.Wrap(err, "service account json")
	}
	srv, err := sheetsv4.NewService(ctx,
		option.WithCredentialsFile(serviceAccountJSONPath),
		option.WithScopes(sheetsv4.SpreadsheetsScope),
	)
	if err != nil {
		return nil, errors.Wrap(err, "sheets service")
	}
	return &Sheets{srv: srv, spreadsheetID: spreadsheetID, sheet: sheet}, nil
}

func (s *Sheets) PublishStandings(ctx context.Context, st models.EventStandings) error {
	vr := &sheetsv4.ValueRange{Values: sheetRows(st)}
	_, err := s.srv.Spreadsheets.Values.Append(s.spreadsheetID, s.sheet+"!A:Z", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return errors.Wrapf(err, "append standings of event %d", st.EventID)
}

func sheetRows(st models.EventStandings) [][]interface{} {
	rows := make([][]interface{}, 0, len(st.Results)+2)
	rows = append(rows, []interface{}{st.EventTitle, st.EventDate.Format("2006-01-02"), st.EventLocation})
	rows = append(rows, toInterfaces(standingsHeader))
	for _, s := range st.Results {
		rows = append(rows, []interface{}{
			s.Position, s.ParticipantName, s.CarInfo, s.TotalLaps, s.BestLapTime, s.AverageLapTime, s.TotalTime,
		})
	}
	return rows
}

func toInterfaces(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
