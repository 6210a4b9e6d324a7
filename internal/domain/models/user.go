package models

// User представляет покупателя или администратора магазина
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	PassHash  []byte `json:"-"`
	IsAdmin   bool   `json:"is_admin"`
}
