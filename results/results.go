// Package results turns recorded lap times into ranked final results and
// keeps participants' career statistics in step.
package results

//go:generate mockgen -destination=mock_results/mock_results.go -package=mock_results race-events/results Publisher

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"race-events/models"
	"race-events/store"
	"race-events/utils"
)

// Publisher receives an event's standings after every committed
// computation. Failures are logged and never undo the computation.
type Publisher interface {
	PublishStandings(ctx context.Context, st models.EventStandings) error
}

type Engine struct {
	store      *store.Store
	publishers []Publisher
}

func New(s *store.Store, publishers ...Publisher) *Engine {
	return &Engine{store: s, publishers: publishers}
}

// ManualPosition assigns Position to an application. Positions of zero or
// less leave the application unclassified.
type ManualPosition struct {
	ApplicationID int64 `json:"application_id"`
	Position      int   `json:"position"`
}

// ManualEntry is one row of the manual positions form.
type ManualEntry struct {
	ApplicationID   int64  `json:"application_id"`
	ParticipantName string `json:"participant_name"`
	CarInfo         string `json:"car_info"`
	TotalLaps       int    `json:"total_laps"`
	Position        int    `json:"position"`
}

type aggregate struct {
	laps    int
	best    time.Duration
	total   time.Duration
	average time.Duration
}

func aggregateLaps(laps []models.LapTime) aggregate {
	var a aggregate
	for i, l := range laps {
		if i == 0 || l.Time < a.best {
			a.best = l.Time
		}
		a.total += l.Time
	}
	a.laps = len(laps)
	if a.laps > 0 {
		// durations are stored in whole milliseconds
		a.average = time.Duration(a.total.Milliseconds()/int64(a.laps)) * time.Millisecond
	}
	return a
}

func (a aggregate) result(applicationID int64, position int) models.FinalResult {
	return models.FinalResult{
		ApplicationID:  applicationID,
		Position:       position,
		TotalLaps:      a.laps,
		BestLapTime:    a.best,
		AverageLapTime: a.average,
		TotalTime:      a.total,
	}
}

type entry struct {
	app      models.Application
	agg      aggregate
	position int
}

// rank orders entries by total time, then best lap, then application id.
func rank(entries []entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.agg.total != b.agg.total {
			return a.agg.total < b.agg.total
		}
		if a.agg.best != b.agg.best {
			return a.agg.best < b.agg.best
		}
		return a.app.ID < b.app.ID
	})
}

// CalculateResults ranks the event's approved entries by their lap times.
// Entries without laps are left out. Recalculating overwrites the existing
// results; a podium is counted once per application.
func (e *Engine) CalculateResults(ctx context.Context, caller models.Caller, eventID int64) ([]models.FinalResult, error) {
	if !caller.IsAdmin() {
		return nil, models.ErrForbidden
	}
	var out []models.FinalResult
	err := e.store.WithTx(ctx, func(tx *store.Store) error {
		apps, err := lockedEntries(ctx, tx, eventID)
		if err != nil {
			return err
		}
		entries := make([]entry, 0, len(apps))
		for _, app := range apps {
			if len(app.LapTimes) == 0 {
				continue
			}
			entries = append(entries, entry{app: app, agg: aggregateLaps(app.LapTimes)})
		}
		rank(entries)

		out = make([]models.FinalResult, 0, len(entries))
		for i, en := range entries {
			r := en.agg.result(en.app.ID, i+1)
			if err := record(ctx, tx, en.app, &r); err != nil {
				return err
			}
			out = append(out, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"event_id": eventID, "classified": len(out)}).Info("results calculated")
	e.publish(ctx, eventID)
	return out, nil
}

// SetManualPositions classifies entries in the administrator's order
// instead of by time. Aggregates still come from the recorded laps.
// Nothing is written unless every position is valid.
func (e *Engine) SetManualPositions(ctx context.Context, caller models.Caller, eventID int64, positions []ManualPosition) ([]models.FinalResult, error) {
	if !caller.IsAdmin() {
		return nil, models.ErrForbidden
	}
	if err := checkDuplicates(positions); err != nil {
		return nil, err
	}

	var out []models.FinalResult
	err := e.store.WithTx(ctx, func(tx *store.Store) error {
		apps, err := lockedEntries(ctx, tx, eventID)
		if err != nil {
			return err
		}
		byID := make(map[int64]models.Application, len(apps))
		for _, app := range apps {
			byID[app.ID] = app
		}

		entries := make([]entry, 0, len(positions))
		listed := map[int64]bool{}
		for _, p := range positions {
			if p.Position <= 0 {
				continue
			}
			app, ok := byID[p.ApplicationID]
			if !ok {
				return models.Invalid(fmt.Sprintf("application %d is not an approved entry of this event", p.ApplicationID))
			}
			if listed[app.ID] {
				return models.Invalid(fmt.Sprintf("application %d is listed more than once", app.ID))
			}
			listed[app.ID] = true
			entries = append(entries, entry{app: app, agg: aggregateLaps(app.LapTimes), position: p.Position})
		}

		out = make([]models.FinalResult, 0, len(entries))
		for _, en := range entries {
			r := en.agg.result(en.app.ID, en.position)
			if err := record(ctx, tx, en.app, &r); err != nil {
				return err
			}
			out = append(out, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })

	log.WithFields(log.Fields{"event_id": eventID, "classified": len(out)}).Info("manual positions set")
	e.publish(ctx, eventID)
	return out, nil
}

func checkDuplicates(positions []ManualPosition) error {
	seen := map[int]int{}
	for _, p := range positions {
		if p.Position > 0 {
			seen[p.Position]++
		}
	}
	var dups []int
	for pos, n := range seen {
		if n > 1 {
			dups = append(dups, pos)
		}
	}
	if len(dups) == 0 {
		return nil
	}
	sort.Ints(dups)
	parts := make([]string, len(dups))
	for i, d := range dups {
		parts[i] = strconv.Itoa(d)
	}
	return models.Invalid("duplicate positions: " + strings.Join(parts, ", "))
}

// lockedEntries locks the event and returns its approved entries with laps.
func lockedEntries(ctx context.Context, tx *store.Store, eventID int64) ([]models.Application, error) {
	if err := tx.LockEvent(ctx, eventID); err != nil {
		return nil, err
	}
	event, err := tx.Event(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status == models.EventCancelled {
		return nil, models.Invalid("results cannot be set for a cancelled event")
	}
	return tx.ApprovedApplications(ctx, eventID)
}

// record upserts r and applies the career statistics rules: a podium counts
// only on the application's first result, and the best lap only improves.
func record(ctx context.Context, tx *store.Store, app models.Application, r *models.FinalResult) error {
	inserted, err := tx.UpsertFinalResult(ctx, r)
	if err != nil {
		return err
	}
	if inserted && r.IsPodium() {
		if err := tx.IncrementPodiumCount(ctx, app.ParticipantID); err != nil {
			return err
		}
	}
	if r.TotalLaps > 0 {
		if _, err := tx.ImproveBestLap(ctx, app.ParticipantID, r.BestLapTime); err != nil {
			return err
		}
	}
	return nil
}

// Standings is the event's classification as shown on the results page.
func (e *Engine) Standings(ctx context.Context, eventID int64) (models.EventStandings, error) {
	event, err := e.store.Event(ctx, eventID)
	if err != nil {
		return models.EventStandings{}, err
	}
	apps, err := e.store.FinalResultsByEvent(ctx, eventID)
	if err != nil {
		return models.EventStandings{}, err
	}

	st := models.EventStandings{
		EventID:       event.ID,
		EventTitle:    event.Title,
		EventDate:     event.Date,
		EventLocation: event.Location,
		Results:       make([]models.Standing, 0, len(apps)),
		Podium:        []models.Standing{},
	}
	for _, app := range apps {
		r := app.FinalResult
		row := models.Standing{
			ResultID:        r.ID,
			ApplicationID:   app.ID,
			ParticipantID:   app.ParticipantID,
			Position:        r.Position,
			ParticipantName: app.Participant.FullName(),
			CarInfo:         app.Car.Label(),
			BestLapTime:     utils.FormatLapTime(r.BestLapTime),
			AverageLapTime:  utils.FormatLapTime(r.AverageLapTime),
			TotalTime:       utils.FormatLapTime(r.TotalTime),
			TotalLaps:       r.TotalLaps,
		}
		st.Results = append(st.Results, row)
		if r.IsPodium() {
			st.Podium = append(st.Podium, row)
		}
	}
	return st, nil
}

// ManualPositionsForm lists the approved entries with their current
// positions, zero for unclassified ones.
func (e *Engine) ManualPositionsForm(ctx context.Context, caller models.Caller, eventID int64) ([]ManualEntry, error) {
	if !caller.IsAdmin() {
		return nil, models.ErrForbidden
	}
	if _, err := e.store.Event(ctx, eventID); err != nil {
		return nil, err
	}
	apps, err := e.store.ApprovedApplications(ctx, eventID)
	if err != nil {
		return nil, err
	}
	out := make([]ManualEntry, 0, len(apps))
	for _, app := range apps {
		me := ManualEntry{
			ApplicationID:   app.ID,
			ParticipantName: app.Participant.FullName(),
			CarInfo:         app.Car.Label(),
			TotalLaps:       len(app.LapTimes),
		}
		if app.FinalResult != nil {
			me.Position = app.FinalResult.Position
		}
		out = append(out, me)
	}
	return out, nil
}

func (e *Engine) publish(ctx context.Context, eventID int64) {
	if len(e.publishers) == 0 {
		return
	}
	st, err := e.Standings(ctx, eventID)
	if err != nil {
		log.WithError(err).WithField("event_id", eventID).Warn("load standings for publishing")
		return
	}
	for _, p := range e.publishers {
		if err := p.PublishStandings(ctx, st); err != nil {
			log.WithError(err).WithField("event_id", eventID).Warn("publish standings failed")
		}
	}
}
