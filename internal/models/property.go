package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Property is a real-estate asset owned by exactly one landlord account.
// Price is the acquisition/listing price, not rent.
type Property struct {
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Image       *string         `json:"image,omitempty"`
	Name        string          `json:"name"`
	Address     string          `json:"address"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ID          uuid.UUID       `json:"id"`
	OwnerID     uuid.UUID       `json:"owner"`
}

