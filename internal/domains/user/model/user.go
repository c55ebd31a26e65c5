package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"library-backend/internal/shared"
	"library-backend/internal/shared/apperror"
)

// Role of a user account
type Role string

const (
	RoleAdmin   Role = shared.RoleAdmin
	RolePetugas Role = shared.RolePetugas
	RoleAnggota Role = shared.RoleAnggota
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePetugas, RoleAnggota:
		return true
	}
	return false
}

// User - account used to log in
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserDTO - public view without the password hash
type UserDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToDTO() UserDTO {
	return UserDTO{ID: u.ID.String(), Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

// LoginRequest - POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("email is required"), is.EmailFormat),
		validation.Field(&r.Password, validation.Required.Error("password is required")),
	)
}

// LoginResponse - token plus the user it belongs to
type LoginResponse struct {
	User      UserDTO   `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateUserRequest - used by the admin CLI
type CreateUserRequest struct {
	Name     string
	Email    string
	Password string
	Role     Role
}

func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
		validation.Field(&r.Role, validation.Required, validation.By(func(v interface{}) error {
			if role, _ := v.(Role); !role.Valid() {
				return validation.NewError("validation_role", "must be admin, petugas or anggota")
			}
			return nil
		})),
	)
}

// NormalizeEmail lowercases and trims an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var (
	ErrUserNotFound       = apperror.NotFound("User not found")
	ErrInvalidCredentials = apperror.Unauthorized("Invalid email or password")
	ErrEmailExists        = apperror.Conflict("Email already registered")
	ErrTooManyAttempts    = apperror.TooManyRequests("Too many failed login attempts, try again later")
)
