package types

import (
	"time"

	"github.com/google/uuid"
)

type Bookmark struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	LocationID uuid.UUID `json:"location_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// BookmarkDetail joins a bookmark with the location it saves.
type BookmarkDetail struct {
	ID        uuid.UUID `json:"id"`
	Location  Location  `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

type AddBookmarkRequest struct {
	LocationID string `json:"location_id"`
}
