package entity

import (
	"time"
)

// AccountTypeAdmin marks the single administrator account.
const AccountTypeAdmin = "admin"

// User is the aggregate root for the account domain
// Passwords are stored as bcrypt hashes in Password field.
// A non-nil DeletedAt means the account was soft-deleted.
type User struct {
	ID          int64
	Email       string
	Password    string
	Name        string
	Gender      string
	Age         int
	PhoneNumber string
	AccountType string

	Vaccination

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Vaccination holds the optional dose record of an account.
type Vaccination struct {
	VaccineName       *string
	FirstDozeTaken    *bool
	FirstDozeDate     *time.Time
	SecondDozeTaken   *bool
	SecondDozeDate    *time.Time
	IsFullyVaccinated *bool
}
