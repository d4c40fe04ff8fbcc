package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"race-events/admission"
	"race-events/config"
	"race-events/controllers"
	"race-events/driver"
	"race-events/export"
	"race-events/notify"
	"race-events/results"
	"race-events/store"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	setupLogging(cfg)

	if err := driver.Migrate(cfg); err != nil {
		log.WithError(err).Fatal("migrate database")
	}
	db, err := driver.ConnectDB(cfg)
	if err != nil {
		log.WithError(err).Fatal("connect database")
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := store.New(db)
	if cfg.AdminEmail != "" {
		if err := controllers.BootstrapAdministrator(ctx, s, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.WithError(err).Fatal("bootstrap administrator")
		}
	}

	var notifier notify.Notifier = notify.Nop{}
	var publishers []results.Publisher
	if cfg.TelegramEnabled() {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.WithError(err).Fatal("telegram")
		}
		notifier = tg
		publishers = append(publishers, tg)
	}
	if cfg.SheetsEnabled() {
		sheets, err := export.NewSheets(ctx, cfg.GoogleServiceAccountJSON, cfg.SpreadsheetID, cfg.ResultsSheet)
		if err != nil {
			log.WithError(err).Fatal("google sheets")
		}
		publishers = append(publishers, sheets)
	}

	admissions := admission.New(s, notifier)
	engine := results.New(s, publishers...)

	router := newRouter(cfg, s, admissions, engine)
	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("server started")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("http server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("shutting down")

	cancel()
	ctxTimeout, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	if err := httpSrv.Shutdown(ctxTimeout); err != nil {
		log.WithError(err).Warn("shutdown")
	}
}

func newRouter(cfg config.Config, s *store.Store, admissions *admission.Service, engine *results.Engine) *mux.Router {
	controller := controllers.Controller{}
	carController := controllers.CarController{}
	eventController := controllers.EventController{}
	championshipController := controllers.ChampionshipController{}
	applicationController := controllers.ApplicationController{}
	raceController := controllers.RaceController{}
	resultController := controllers.ResultController{}
	profileController := controllers.ProfileController{}

	auth := func(h http.HandlerFunc) http.HandlerFunc {
		return controller.TokenVerifyMiddleware(cfg.Secret, h)
	}

	router := mux.NewRouter()
	router.Use(controllers.RequestLogger())

	router.HandleFunc("/signup", controller.Signup(s)).Methods("POST")
	router.HandleFunc("/login", controller.Login(s, cfg.Secret, cfg.TokenTTL)).Methods("POST")
	router.HandleFunc("/getMe", auth(controller.GetMe(s))).Methods("GET")
	router.HandleFunc("/profile", auth(profileController.GetProfile(s))).Methods("GET")

	router.HandleFunc("/cars", auth(carController.GetMyCars(s))).Methods("GET")
	router.HandleFunc("/cars", auth(carController.CreateCar(s))).Methods("POST")
	router.HandleFunc("/cars/{id}", auth(carController.UpdateCar(s))).Methods("PUT")
	router.HandleFunc("/cars/{id}", auth(carController.DeleteCar(s))).Methods("DELETE")

	router.HandleFunc("/events", eventController.GetEvents(s)).Methods("GET")
	router.HandleFunc("/events", auth(eventController.CreateEvent(s))).Methods("POST")
	router.HandleFunc("/events/mine", auth(eventController.GetMyEvents(s))).Methods("GET")
	router.HandleFunc("/events/{id}", eventController.GetEvent(s)).Methods("GET")
	router.HandleFunc("/events/{id}", auth(eventController.UpdateEvent(s))).Methods("PUT")
	router.HandleFunc("/events/{id}/status", auth(eventController.UpdateEventStatus(s))).Methods("PUT")

	router.HandleFunc("/championships", championshipController.GetChampionships(s)).Methods("GET")
	router.HandleFunc("/championships", auth(championshipController.CreateChampionship(s))).Methods("POST")
	router.HandleFunc("/championships/{id}", championshipController.GetChampionship(s)).Methods("GET")
	router.HandleFunc("/championships/{id}", auth(championshipController.UpdateChampionship(s))).Methods("PUT")
	router.HandleFunc("/championships/{id}", auth(championshipController.DeleteChampionship(s))).Methods("DELETE")

	router.HandleFunc("/applications", auth(applicationController.List(admissions))).Methods("GET")
	router.HandleFunc("/applications", auth(applicationController.Submit(admissions))).Methods("POST")
	router.HandleFunc("/applications/{id}", auth(applicationController.Review(admissions))).Methods("GET")
	router.HandleFunc("/applications/{id}/approve", auth(applicationController.Approve(admissions))).Methods("POST")
	router.HandleFunc("/applications/{id}/reject", auth(applicationController.Reject(admissions))).Methods("POST")
	router.HandleFunc("/applications/{id}/withdraw", auth(applicationController.Withdraw(admissions))).Methods("POST")

	router.HandleFunc("/events/{id}/laps", auth(raceController.LapSheet(engine))).Methods("GET")
	router.HandleFunc("/events/{id}/laps", auth(raceController.RecordLap(engine))).Methods("POST")
	router.HandleFunc("/events/{id}/results/calculate", auth(raceController.CalculateResults(engine))).Methods("POST")
	router.HandleFunc("/events/{id}/results/manual", auth(raceController.ManualPositionsForm(engine))).Methods("GET")
	router.HandleFunc("/events/{id}/results/manual", auth(raceController.SetManualPositions(engine))).Methods("PUT")

	router.HandleFunc("/results", resultController.GetResultEvents(s)).Methods("GET")
	router.HandleFunc("/results/{id}", resultController.GetStandings(engine)).Methods("GET")
	router.HandleFunc("/results/{id}/csv", resultController.ExportCSV(engine)).Methods("GET")

	return router
}

func setupLogging(cfg config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if cfg.LogFormat == "text" {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
		return
	}
	log.SetFormatter(&log.JSONFormatter{})
}
