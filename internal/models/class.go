package models

// Class represents a subject offered by a tutor at a given cost.
type Class struct {
	ID      int64   `db:"id" json:"id"`
	Subject string  `db:"subject" json:"subject"`
	Cost    float64 `db:"cost" json:"cost"`
	UserID  int64   `db:"user_id" json:"user_id"`
}

// ClassItem is a listing row joining the class with its tutor's public
// profile. URL fields are filled in by the HTTP layer.
type ClassItem struct {
	ID      int64   `db:"id" json:"id"`
	Subject string  `db:"subject" json:"subject"`
	Cost    float64 `db:"cost" json:"cost"`
	UserID  int64   `db:"user_id" json:"user_id"`

	Name     string `db:"name" json:"name"`
	Surname  string `db:"surname" json:"surname"`
	Email    string `db:"email" json:"email"`
	Avatar   string `db:"avatar" json:"avatar"`
	Whatsapp string `db:"whatsapp" json:"whatsapp"`
	Bio      string `db:"bio" json:"bio"`

	URL     string `db:"-" json:"url,omitempty"`
	UserURL string `db:"-" json:"user_url,omitempty"`
}

// ClassFilter captures the optional listing filters. WeekDay and
// TimeInMinutes must be satisfied by a single schedule slot when both are
// present.
type ClassFilter struct {
	Subject       string
	WeekDay       *int
	TimeInMinutes *int
	Page          int
	PageSize      int
}
