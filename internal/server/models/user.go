// Package models holds the records persisted by the server.
package models

import "time"

// User is a registered account. Rows are inserted once signup passes email
// validation and are never updated afterwards.
type User struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	FullName     string    `db:"fullname"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}
