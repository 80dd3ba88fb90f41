package model

import "time"

// MaxFolderNameLength bounds folder names.
const MaxFolderNameLength = 100

// Folder groups a user's products. Names are unique per user.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
