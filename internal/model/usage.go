package model

import "time"

// APIUsage is the cumulative metering counter for one user.
// TotalTime is in milliseconds.
type APIUsage struct {
	UserID     string    `json:"userId"`
	TotalTime  int64     `json:"totalTime"`
	TotalCount int64     `json:"totalCount"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
