package domain

import (
	"errors"
	"time"
)

var ErrUserAlreadyExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
