package channel

import (
	"sort"
	"time"
)

type Channel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Locked    bool      `json:"locked" gorm:"default:false"` // only admin may post when true
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Messages  []Message `json:"-" gorm:"foreignKey:ChannelID"`
}

type Message struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ChannelID uint      `json:"channel_id"`
	Author    string    `json:"author"` // username copy, not a foreign key
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// SortAscending orders messages by creation time, oldest first, with the
// insertion id breaking ties. Equal timestamps happen under fast appends;
// the database order alone is not deterministic for them.
func SortAscending(messages []Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
}
