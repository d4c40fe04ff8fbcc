package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"race-events/models"
	"race-events/store"
	"race-events/store/storetest"
)

func TestUpsertFinalResultReportsInsertOnce(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	admin := storetest.Administrator(t, s)
	event := storetest.Event(t, s, admin.ID, nil)
	app := storetest.Entry(t, s, event.ID, models.ApplicationApproved)

	r := models.FinalResult{ApplicationID: app.ID, Position: 2, TotalLaps: 1, BestLapTime: time.Minute,
		AverageLapTime: time.Minute, TotalTime: time.Minute}
	inserted, err := s.UpsertFinalResult(ctx, &r)
	if err != nil || !inserted {
		t.Fatalf("first upsert = %v, %v; want inserted", inserted, err)
	}
	firstID := r.ID

	r.Position = 1
	inserted, err = s.UpsertFinalResult(ctx, &r)
	if err != nil || inserted {
		t.Fatalf("second upsert = %v, %v; want update", inserted, err)
	}
	if r.ID != firstID {
		t.Errorf("id changed from %d to %d", firstID, r.ID)
	}

	rows, err := s.FinalResultsByEvent(ctx, event.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].FinalResult.Position != 1 {
		t.Fatalf("results = %+v", rows)
	}
}

func TestImproveBestLapOnlyMovesDown(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	p := storetest.Participant(t, s)

	steps := []struct {
		lap     time.Duration
		changed bool
		want    time.Duration
	}{
		{80 * time.Second, true, 80 * time.Second},
		{85 * time.Second, false, 80 * time.Second},
		{80 * time.Second, false, 80 * time.Second},
		{75 * time.Second, true, 75 * time.Second},
	}
	for _, step := range steps {
		changed, err := s.ImproveBestLap(ctx, p.ID, step.lap)
		if err != nil {
			t.Fatal(err)
		}
		if changed != step.changed {
			t.Errorf("ImproveBestLap(%v) changed = %v, want %v", step.lap, changed, step.changed)
		}
		got, err := s.Participant(ctx, p.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.BestLapTime == nil || *got.BestLapTime != step.want {
			t.Errorf("after %v best lap = %v, want %v", step.lap, got.BestLapTime, step.want)
		}
	}
}

func TestSetApplicationStatusIsCompareAndSet(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	admin := storetest.Administrator(t, s)
	event := storetest.Event(t, s, admin.ID, nil)
	app := storetest.Entry(t, s, event.ID, models.ApplicationPending)

	if err := s.SetApplicationStatus(ctx, app.ID, app.Version, models.ApplicationApproved); err != nil {
		t.Fatalf("first write: %v", err)
	}
	err := s.SetApplicationStatus(ctx, app.ID, app.Version, models.ApplicationRejected)
	if !errors.Is(err, models.ErrConflict) {
		t.Fatalf("stale write err = %v, want ErrConflict", err)
	}
	err = s.SetApplicationStatus(ctx, 9999, 0, models.ApplicationRejected)
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("missing row err = %v, want ErrNotFound", err)
	}

	got, err := s.Application(ctx, app.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.ApplicationApproved || got.Version != app.Version+1 {
		t.Errorf("application = %s v%d", got.Status, got.Version)
	}
}

func TestUniqueConstraintsAreClassified(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	p := storetest.Participant(t, s)
	car := storetest.Car(t, s, p.ID, nil)

	dup := models.Car{ParticipantID: p.ID, Brand: "BMW", Model: "M2", CarClass: "A", Year: 2020,
		LicensePlate: car.LicensePlate}
	if err := s.CreateCar(ctx, &dup); !errors.Is(err, models.ErrDuplicate) {
		t.Errorf("duplicate plate err = %v, want ErrDuplicate", err)
	}

	admin := storetest.Administrator(t, s)
	event := storetest.Event(t, s, admin.ID, nil)
	app := storetest.Application(t, s, p.ID, event.ID, car.ID, models.ApplicationApproved)
	storetest.Laps(t, s, app.ID, time.Minute)
	lap := models.LapTime{ApplicationID: app.ID, LapNumber: 1, Time: 2 * time.Minute}
	if err := s.CreateLapTime(ctx, &lap); !errors.Is(err, models.ErrDuplicate) {
		t.Errorf("duplicate lap err = %v, want ErrDuplicate", err)
	}

	if err := s.DeleteCar(ctx, car.ID, p.ID); !errors.Is(err, store.ErrInUse) {
		t.Errorf("delete entered car err = %v, want ErrInUse", err)
	}
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	p := storetest.Participant(t, s)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.IncrementPodiumCount(ctx, p.ID); err != nil {
			return err
		}
		return boom
	})
	if err != boom {
		t.Fatalf("err = %v", err)
	}
	got, err := s.Participant(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.PodiumCount != 0 {
		t.Errorf("podium count = %d after rollback", got.PodiumCount)
	}
}

func TestApprovedApplicationsAttachLaps(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	admin := storetest.Administrator(t, s)
	event := storetest.Event(t, s, admin.ID, nil)
	a := storetest.Entry(t, s, event.ID, models.ApplicationApproved)
	b := storetest.Entry(t, s, event.ID, models.ApplicationPending)
	storetest.Laps(t, s, a.ID, 80*time.Second, 78*time.Second)
	storetest.Laps(t, s, b.ID, 70*time.Second)

	apps, err := s.ApprovedApplications(ctx, event.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(apps) != 1 || apps[0].ID != a.ID {
		t.Fatalf("approved = %+v", apps)
	}
	if len(apps[0].LapTimes) != 2 || apps[0].LapTimes[1].Time != 78*time.Second {
		t.Errorf("laps = %+v", apps[0].LapTimes)
	}
	if apps[0].Participant == nil || apps[0].Car == nil || apps[0].Event.ID != event.ID {
		t.Errorf("relations not loaded: %+v", apps[0])
	}
}

func namedParticipant(t *testing.T, s *store.Store, first, last string) models.Participant {
	t.Helper()
	p := models.Participant{
		User: models.User{
			Email:        first + "." + last + "@example.com",
			PasswordHash: "x",
			FirstName:    first,
			LastName:     last,
		},
		DriverLicense: "DL-" + first + last,
		DateOfBirth:   time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := s.CreateParticipant(context.Background(), &p); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestApprovedApplicationsOrderedByName(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	admin := storetest.Administrator(t, s)
	event := storetest.Event(t, s, admin.ID, nil)

	var ids []int64
	for _, name := range [][2]string{{"Vera", "Petrova"}, {"Anna", "Petrova"}, {"Igor", "Avdeev"}} {
		p := namedParticipant(t, s, name[0], name[1])
		c := storetest.Car(t, s, p.ID, nil)
		ids = append(ids, storetest.Application(t, s, p.ID, event.ID, c.ID, models.ApplicationApproved).ID)
	}

	apps, err := s.ApprovedApplications(ctx, event.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{ids[2], ids[1], ids[0]}
	if len(apps) != len(want) {
		t.Fatalf("approved = %d entries", len(apps))
	}
	for i, app := range apps {
		if app.ID != want[i] {
			t.Errorf("entry %d = %s, want application %d", i, app.Participant.FullName(), want[i])
		}
	}
}

func TestCountApplicationsIncludesCancelled(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	admin := storetest.Administrator(t, s)
	event := storetest.Event(t, s, admin.ID, nil)
	for _, st := range []models.ApplicationStatus{
		models.ApplicationPending, models.ApplicationApproved, models.ApplicationRejected,
		models.ApplicationCancelled, models.ApplicationCancelled,
	} {
		storetest.Entry(t, s, event.ID, st)
	}

	counts, err := s.CountApplications(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := models.ApplicationCounts{Pending: 1, Approved: 1, Rejected: 1, Cancelled: 2}
	if counts != want {
		t.Errorf("counts = %+v, want %+v", counts, want)
	}
	all, err := s.ApplicationsByStatus(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if n := counts.Pending + counts.Approved + counts.Rejected + counts.Cancelled; n != len(all) {
		t.Errorf("counts add up to %d, listed %d", n, len(all))
	}
}

func TestEventLoadsChampionship(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	admin := storetest.Administrator(t, s)
	champ := storetest.Championship(t, s, admin.ID, 2)
	hp := 200
	event := storetest.Event(t, s, admin.ID, func(e *models.Event) {
		e.ChampionshipID = &champ.ID
		e.MaxHorsepower = &hp
		e.RequiredDriveType = "AWD"
	})

	got, err := s.Event(ctx, event.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Championship == nil || got.Championship.MinPodiumsRequired != 2 {
		t.Fatalf("championship = %+v", got.Championship)
	}
	if got.MaxHorsepower == nil || *got.MaxHorsepower != 200 || got.RequiredDriveType != "AWD" {
		t.Errorf("event = %+v", got)
	}

	if err := s.DeleteChampionship(ctx, champ.ID, admin.ID); err != nil {
		t.Fatal(err)
	}
	got, err = s.Event(ctx, event.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ChampionshipID != nil {
		t.Errorf("event still linked to %d", *got.ChampionshipID)
	}
}
