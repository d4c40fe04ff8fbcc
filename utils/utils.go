package utils

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"race-events/models"
)

const tokenIssuer = "race-events"

func RespondWithError(w http.ResponseWriter, status int, error models.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(error); err != nil {
		log.WithError(err).Error("encode error response")
	}
}

func ResponseJSON(w http.ResponseWriter, data interface{}) {
	ResponseJSONStatus(w, http.StatusOK, data)
}

func ResponseJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Error("encode response")
	}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hash), nil
}

func ComparePasswords(hashedPassword string, password []byte) bool {
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), password); err != nil {
		log.WithError(err).Debug("password mismatch")
		return false
	}
	return true
}

func GenerateToken(secret string, user models.User, expiration time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("token secret is not set")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":     tokenIssuer,
		"user_id": user.ID,
		"role":    string(user.Role),
		"email":   user.Email,
		"exp":     now.Add(expiration).Unix(),
		"iat":     now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a signed token and returns the identity it carries.
func ParseToken(secret, tokenString string) (models.Caller, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return models.Caller{}, errors.New("token expired")
		}
		return models.Caller{}, err
	}
	if !token.Valid {
		return models.Caller{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Caller{}, errors.New("invalid token claims")
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return models.Caller{}, errors.New("user_id not found in token")
	}
	role := models.Role(toString(claims["role"]))
	if !role.Valid() {
		return models.Caller{}, errors.New("role not found in token")
	}
	return models.Caller{UserID: int64(userID), Role: role}, nil
}

func toString(v interface{}) string {
	s, _ := v.(string)
	return s
}
