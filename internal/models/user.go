package models

// User is the local credential record. Normal single-user operation keeps
// zero or one row, but the schema permits more.
type User struct {
	Base
	Username     string `gorm:"not null;uniqueIndex" json:"username"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
}
