package service

import "errors"

var (
	ErrRegionNotFound     = errors.New("region not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrRegionNameTaken    = errors.New("region name already exists")
	ErrUserExists         = errors.New("phone or username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidSecret      = errors.New("invalid registration secret key")
)
