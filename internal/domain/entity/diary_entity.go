package entity

import "time"

// Diary is a travel-journal entry. Owner fields (UserID, UserNick,
// UserName) are stamped from the author's profile at creation time and
// CreatedAt is assigned by the server, never by the client.
type Diary struct {
	ID        string
	Title     string
	Content   string
	Location  string
	ImageURL  string
	UserID    string
	UserNick  string
	UserName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LocationCount is a dashboard aggregate: entries per location.
type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// DayCount is a dashboard aggregate: entries per calendar day.
type DayCount struct {
	Day   string `json:"day"` // YYYY-MM-DD
	Count int    `json:"count"`
}
