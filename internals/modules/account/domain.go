package account

import (
	"github.com/google/uuid"
)

const (
	FreeTargetLimit = 5
	PaidTargetLimit = 50
)

type Account struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	TargetsCount int32
	IsPaidUser   bool
}

type RegisterCmd struct {
	Name     string
	Email    string
	Password string
}

type LogInCmd struct {
	Email    string
	Password string
}

type LogInResult struct {
	UserID      uuid.UUID
	AccessToken string
}
