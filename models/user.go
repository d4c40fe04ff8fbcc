package models

import "time"

type Role string

const (
	RoleParticipant   Role = "PARTICIPANT"
	RoleAdministrator Role = "ADMINISTRATOR"
)

func (r Role) Valid() bool {
	return r == RoleParticipant || r == RoleAdministrator
}

// User holds the identity fields shared by every role. Role-specific data
// lives in Participant or Administrator, keyed by the same user id.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Role         Role   `json:"role"`
}

func (u User) FullName() string {
	return u.LastName + " " + u.FirstName
}

// Caller is the authenticated identity an operation runs on behalf of.
type Caller struct {
	UserID int64
	Role   Role
}

func (c Caller) IsAdmin() bool       { return c.Role == RoleAdministrator }
func (c Caller) IsParticipant() bool { return c.Role == RoleParticipant }

type Participant struct {
	User
	DriverLicense    string         `json:"driver_license"`
	DateOfBirth      time.Time      `json:"date_of_birth"`
	Phone            string         `json:"phone,omitempty"`
	RegistrationDate time.Time      `json:"registration_date"`
	BestLapTime      *time.Duration `json:"best_lap_ms,omitempty"`
	PodiumCount      int            `json:"podium_count"`
}

type Administrator struct {
	User
	Department string    `json:"department,omitempty"`
	HireDate   time.Time `json:"hire_date"`
}
