package branch

import (
	"time"
)

// Branch owns its products and membership links; deleting a branch cascades
// both away.
type Branch struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;size:255;not null"`
	Location  *string   `json:"location,omitempty" gorm:"size:255"`
	Address   *string   `json:"address,omitempty" gorm:"size:500"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Branch) TableName() string {
	return "branches"
}

type LocationResponse struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   *string  `json:"address"`
}

func (b *Branch) ToLocation() LocationResponse {
	return LocationResponse{
		ID:        b.ID,
		Name:      b.Name,
		Latitude:  b.Latitude,
		Longitude: b.Longitude,
		Address:   b.Address,
	}
}
