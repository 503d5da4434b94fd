package models

// User represents a tutor profile stored in the users table.
type User struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Surname  string `db:"surname" json:"surname"`
	Email    string `db:"email" json:"email"`
	Password string `db:"password" json:"-"`
	Avatar   string `db:"avatar" json:"avatar"`
	Whatsapp string `db:"whatsapp" json:"whatsapp"`
	Bio      string `db:"bio" json:"bio"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
