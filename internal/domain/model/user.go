package model

import (
	"time"

	"telegram-sport-subscription/internal/domain"

	"github.com/google/uuid"
)

// User is the purchaser. TelegramID is zero when the user has not linked a
// Telegram account yet; invite delivery is skipped in that case.
type User struct {
	ID           string
	TelegramID   int64
	Username     string
	SubscribedTo string // category tag of the product line the user is subscribed to
	RegisteredAt time.Time
	LastActiveAt time.Time
}

func NewUser(id string, tgID int64, username string) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if username == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &User{
		ID:           id,
		TelegramID:   tgID,
		Username:     username,
		RegisteredAt: now,
		LastActiveAt: now,
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }
