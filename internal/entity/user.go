package entity

import "time"

type User struct {
	ID              string    `db:"id"`
	Email           string    `db:"email"`
	InstitutionName string    `db:"institution_name"`
	Password        string    `db:"password"`
	Role            string    `db:"role"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type UserLoginData struct {
	ID    string
	Email string
	Role  string
}

const (
	RoleInstitution = "institution"
	RoleStudent     = "student"
)
