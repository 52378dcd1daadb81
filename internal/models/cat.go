package models

import (
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	Male   Gender = "M"
	Female Gender = "F"
)

func (g Gender) Valid() bool { return g == Male || g == Female }

type Cat struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Gender      Gender    `json:"gender"`
	Age         int       `json:"age"`
	Weight      float64   `json:"weight"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	UserID      uuid.UUID `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}
