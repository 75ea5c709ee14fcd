package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleTester   UserRole = "tester"
	RoleOperator UserRole = "operator"
)

type User struct {
	BaseUUIDModel
	Login        string   `gorm:"type:varchar(100);uniqueIndex;not null" json:"login"`
	DisplayName  string   `gorm:"type:varchar(200)"                      json:"displayName"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:tester" json:"role"`
	Password     string   `gorm:"-"                                      json:"-"`
	PasswordHash string   `gorm:"type:varchar(100)"                      json:"-"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate hashes a plain Password set by seeders; the plain value is
// never persisted.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if err := u.BaseUUIDModel.BeforeCreate(tx); err != nil {
		return err
	}
	if u.Password == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.Password = ""
	return nil
}

func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
