package results

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"

	"race-events/models"
	"race-events/results/mock_results"
	"race-events/store"
	"race-events/store/storetest"
)

type fixture struct {
	engine *Engine
	store  *store.Store
	admin  models.Caller
	event  models.Event
}

func newFixture(t *testing.T, publishers ...Publisher) *fixture {
	t.Helper()
	s := storetest.New(t)
	admin := storetest.Administrator(t, s)
	return &fixture{
		engine: New(s, publishers...),
		store:  s,
		admin:  models.Caller{UserID: admin.ID, Role: models.RoleAdministrator},
		event: storetest.Event(t, s, admin.ID, func(e *models.Event) {
			e.Status = models.EventInProgress
		}),
	}
}

func (f *fixture) participant(t *testing.T, app models.Application) models.Participant {
	t.Helper()
	p, err := f.store.Participant(context.Background(), app.ParticipantID)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func sec(s float64) time.Duration { return time.Duration(s * float64(time.Second)) }

func TestAggregateLaps(t *testing.T) {
	laps := []models.LapTime{
		{Time: 1000 * time.Millisecond},
		{Time: 1001 * time.Millisecond},
		{Time: 999 * time.Millisecond},
		{Time: 1001 * time.Millisecond},
	}
	a := aggregateLaps(laps)
	if a.laps != 4 || a.best != 999*time.Millisecond || a.total != 4001*time.Millisecond {
		t.Fatalf("aggregate = %+v", a)
	}
	if a.average != 1000*time.Millisecond {
		t.Errorf("average = %v, want truncated 1s", a.average)
	}
	if z := aggregateLaps(nil); z != (aggregate{}) {
		t.Errorf("empty aggregate = %+v", z)
	}
}

func TestRankBreaksTies(t *testing.T) {
	entries := []entry{
		{app: models.Application{ID: 3}, agg: aggregate{total: sec(150), best: sec(74)}},
		{app: models.Application{ID: 1}, agg: aggregate{total: sec(150), best: sec(74)}},
		{app: models.Application{ID: 2}, agg: aggregate{total: sec(150), best: sec(73)}},
		{app: models.Application{ID: 4}, agg: aggregate{total: sec(149), best: sec(75)}},
	}
	rank(entries)
	want := []int64{4, 2, 1, 3}
	for i, id := range want {
		if entries[i].app.ID != id {
			t.Fatalf("position %d = app %d, want %d", i+1, entries[i].app.ID, id)
		}
	}
}

func TestCalculateResultsTwoEntries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := storetest.Entry(t, f.store, f.event.ID, models.ApplicationApproved)
	b := storetest.Entry(t, f.store, f.event.ID, models.ApplicationApproved)
	storetest.Laps(t, f.store, a.ID, sec(80))
	storetest.Laps(t, f.store, b.ID, sec(75))

	got, err := f.engine.CalculateResults(ctx, f.admin, f.event.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ApplicationID != b.ID || got[0].Position != 1 ||
		got[1].ApplicationID != a.ID || got[1].Position != 2 {
		t.Fatalf("results = %+v", got)
	}
	for _, app := range []models.Application{a, b} {
		if p := f.participant(t, app); p.PodiumCount != 1 {
			t.Errorf("participant %d podium count = %d", p.ID, p.PodiumCount)
		}
	}
	if p := f.participant(t, b); p.BestLapTime == nil || *p.BestLapTime != sec(75) {
		t.Errorf("best lap = %v", p.BestLapTime)
	}
}

func TestCalculateResultsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := storetest.Entry(t, f.store, f.event.ID, models.ApplicationApproved)
	storetest.Laps(t, f.store, a.ID, sec(80), sec(79))

	for i := 0; i < 2; i++ {
		if _, err := f.engine.CalculateResults(ctx, f.admin, f.event.ID); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}
	rows, err := f.store.FinalResultsByEvent(ctx, f.event.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("%d final results, want 1", len(rows))
	}
	if r := rows[0].FinalResult; r.TotalTime != sec(159) || r.AverageLapTime != sec(79.5) || r.TotalLaps != 2 {
		t.Errorf("result = %+v", r)
	}
	if p := f.participant(t, a); p.PodiumCount != 1 {
		t.Errorf("podium count = %d after recalculation", p.PodiumCount)
	}
}

func TestCalculateResultsSkipsEntriesWithoutLaps(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	timed := storetest.Entry(t, f.store, f.event.ID, models.ApplicationApproved)
	storetest.Entry(t, f.store, f.event.ID, models.ApplicationApproved)
	pending := storetest.Entry(t, f.store, f.event.ID, models.ApplicationPending)
	storetest.Laps(t, f.store, timed.ID, sec(90))
	storetest.Laps(t, f.store, pending.ID, sec(60))

	got, err := f.engine.CalculateResults(ctx, f.admin, f.event.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ApplicationID != timed.ID {
		t.Fatalf("results = %+v", got)
	}
}

func TestBestLapNeverGetsWorse(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := storetest.Entry(t, f.store, f.event.ID, models.ApplicationApproved)
	if _, err := f.store.ImproveBestLap(ctx, a.ParticipantID, sec(70)); err != nil {
		t.Fatal(err)
	}
	storetest.Laps(t, f.store, a.ID, sec(75))

	if _, err := f.engine.CalculateResults(ctx, f.admin, f.event.ID); err != nil {
		t.Fatal(err)
	}
	if p := f.participant(t, a); *p.BestLapTime != sec(70) {
		t.Errorf("best lap = %v, want 1m10s", *p.BestLapTime)
	}
}

func TestSetManualPositionsRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := storetest.Entry(t, f.store, f.event.ID, models.ApplicationApproved)
	b := storetest.Entry(t, f.store, f.event.ID, models.ApplicationApproved)

	_, err := f.engine.SetManualPositions(ctx, f.admin, f.event.ID, []ManualPosition{
		{ApplicationID: a.ID, Position: 1},
		{ApplicationID: b.ID, Position: 1},
	})
	var ve *models.ValidationError
	if !errors.As(err, &ve) || ve.Reason != "duplicate positions: 1" {
		t.Fatalf("err = %v", err)
	}
	rows, err := f.store.FinalResultsByEvent(ctx, f.event.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("%d results written", len(rows))
	}
}

func TestCheckDuplicatesListsValuesAscending(t *testing.T) {
	err := checkDuplicates([]ManualPosition{
		{1, 3}, {2, 1}, {3, 3}, {4, 1}, {5, 0}, {6, 0}, {7, 2},
	})
	var ve *models.ValidationError
	if !errors.As(err, &ve) || ve.Reason != "duplicate positions: 1, 3" {
		t.Fatalf("err = %v", err)
	}
}

func TestSetManualPositions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	fast := storetest.Entry(t, f.store, f.event.ID, models.ApplicationApproved)
	noLaps := storetest.Entry(t, f.store, f.event.ID, models.ApplicationApproved)
	skipped := storetest.Entry(t, f.store, f.event.ID, models.ApplicationApproved)
	storetest.Laps(t, f.store, fast.ID, sec(70), sec(72))
	storetest.Laps(t, f.store, skipped.ID, sec(60))

	got, err := f.engine.SetManualPositions(ctx, f.admin, f.event.ID, []ManualPosition{
		{ApplicationID: noLaps.ID, Position: 1},
		{ApplicationID: fast.ID, Position: 2},
		{ApplicationID: skipped.ID, Position: 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ApplicationID != noLaps.ID || got[1].ApplicationID != fast.ID {
		t.Fatalf("results = %+v", got)
	}
	if got[0].TotalLaps != 0 || got[0].TotalTime != 0 || got[0].BestLapTime != 0 {
		t.Errorf("zero-lap aggregates = %+v", got[0])
	}
	if got[1].TotalTime != sec(142) || got[1].BestLapTime != sec(70) {
		t.Errorf("aggregates = %+v", got[1])
	}

	if p := f.participant(t, noLaps); p.PodiumCount != 1 || p.BestLapTime != nil {
		t.Errorf("no-lap participant = %d podiums, best %v", p.PodiumCount, p.BestLapTime)
	}
	if p := f.participant(t, skipped); p.PodiumCount != 0 || p.BestLapTime != nil {
		t.Errorf("skipped participant touched: %+v", p)
	}

	form, err := f.engine.ManualPositionsForm(ctx, f.admin, f.event.ID)
	if err != nil {
		t.Fatal(err)
	}
	positions := map[int64]int{}
	for _, me := range form {
		positions[me.ApplicationID] = me.Position
	}
	if positions[noLaps.ID] != 1 || positions[fast.ID] != 2 || positions[skipped.ID] != 0 {
		t.Errorf("form positions = %v", positions)
	}
}

func TestSetManualPositionsRejectsForeignApplication(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := storetest.Entry(t, f.store, f.event.ID, models.ApplicationApproved)
	pending := storetest.Entry(t, f.store, f.event.ID, models.ApplicationPending)

	_, err := f.engine.SetManualPositions(ctx, f.admin, f.event.ID, []ManualPosition{
		{ApplicationID: a.ID, Position: 1},
		{ApplicationID: pending.ID, Position: 2},
	})
	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v", err)
	}
	if p := f.participant(t, a); p.PodiumCount != 0 {
		t.Errorf("podium count = %d after aborted call", p.PodiumCount)
	}
}

func TestOnlyAdministratorsComputeResults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	driver := models.Caller{UserID: 1, Role: models.RoleParticipant}
	if _, err := f.engine.CalculateResults(ctx, driver, f.event.ID); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("CalculateResults err = %v", err)
	}
	if _, err := f.engine.SetManualPositions(ctx, driver, f.event.ID, nil); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("SetManualPositions err = %v", err)
	}
	if _, err := f.engine.CalculateResults(ctx, f.admin, 9999); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("missing event err = %v", err)
	}
}

func TestStandingsArePublished(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	pub := mock_results.NewMockPublisher(ctrl)
	f := newFixture(t, pub)
	apps := make([]models.Application, 4)
	for i := range apps {
		apps[i] = storetest.Entry(t, f.store, f.event.ID, models.ApplicationApproved)
		storetest.Laps(t, f.store, apps[i].ID, sec(float64(80-i)))
	}

	pub.EXPECT().PublishStandings(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, st models.EventStandings) error {
			if len(st.Results) != 4 || len(st.Podium) != 3 {
				t.Errorf("standings = %d results, %d podium", len(st.Results), len(st.Podium))
			}
			if first := st.Results[0]; first.ApplicationID != apps[3].ID || first.TotalTime != "01:17.0" {
				t.Errorf("leader = %+v", first)
			}
			return errors.New("sheets unavailable")
		})

	if _, err := f.engine.CalculateResults(ctx, f.admin, f.event.ID); err != nil {
		t.Fatalf("publisher failure leaked: %v", err)
	}
}

func TestRecordLap(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := storetest.Entry(t, f.store, f.event.ID, models.ApplicationApproved)
	pending := storetest.Entry(t, f.store, f.event.ID, models.ApplicationPending)

	lap, err := f.engine.RecordLap(ctx, f.admin, f.event.ID, RecordLapRequest{ApplicationID: a.ID, LapNumber: 1, Time: "1:15.25"})
	if err != nil {
		t.Fatal(err)
	}
	if lap.Time != 75250*time.Millisecond {
		t.Errorf("time = %v", lap.Time)
	}

	var fe *models.FieldError
	_, err = f.engine.RecordLap(ctx, f.admin, f.event.ID, RecordLapRequest{ApplicationID: a.ID, LapNumber: 1, Time: "1:16.0"})
	if !errors.As(err, &fe) || fe.Message != "lap 1 is already recorded" {
		t.Errorf("duplicate lap err = %v", err)
	}
	_, err = f.engine.RecordLap(ctx, f.admin, f.event.ID, RecordLapRequest{ApplicationID: a.ID, LapNumber: 2, Time: "fast"})
	if !errors.As(err, &fe) || fe.Field != "time" {
		t.Errorf("bad time err = %v", err)
	}
	_, err = f.engine.RecordLap(ctx, f.admin, f.event.ID, RecordLapRequest{ApplicationID: a.ID, LapNumber: 2, Time: "5124096:00:00"})
	if !errors.As(err, &fe) || fe.Field != "time" {
		t.Errorf("overflowing time err = %v", err)
	}
	_, err = f.engine.RecordLap(ctx, f.admin, f.event.ID, RecordLapRequest{ApplicationID: pending.ID, LapNumber: 1, Time: "1:15"})
	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("pending entry err = %v", err)
	}

	sheet, err := f.engine.LapSheet(ctx, f.admin, f.event.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(sheet) != 1 || sheet[0].NextLapNumber != 2 || len(sheet[0].Application.LapTimes) != 1 {
		t.Errorf("sheet = %+v", sheet)
	}
}
