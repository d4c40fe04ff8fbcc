package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"race-events/models"
	"race-events/utils"
)

type Controller struct {
}

type ctxKey int

const (
	callerKey ctxKey = iota
	requestIDKey
)

// TokenVerifyMiddleware rejects requests without a valid bearer token and
// hands the caller's identity to next through the request context.
func (c Controller) TokenVerifyMiddleware(secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bearerToken := strings.Split(r.Header.Get("Authorization"), " ")
		if len(bearerToken) != 2 || !strings.EqualFold(bearerToken[0], "Bearer") {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Invalid Token."})
			return
		}
		caller, err := utils.ParseToken(secret, bearerToken[1])
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: err.Error()})
			return
		}
		ctx := context.WithValue(r.Context(), callerKey, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func callerFrom(r *http.Request) models.Caller {
	caller, _ := r.Context().Value(callerKey).(models.Caller)
	return caller
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestLogger tags every request with an id and logs its outcome.
func RequestLogger() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", id)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))

			log.WithFields(log.Fields{
				"request_id": id,
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     rec.status,
				"duration":   time.Since(start).String(),
			}).Info("request")
		})
	}
}

func logger(r *http.Request) *log.Entry {
	id, _ := r.Context().Value(requestIDKey).(string)
	return log.WithField("request_id", id)
}
