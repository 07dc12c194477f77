package models

import (
	"github.com/agromarket/backend/internal/domain/identity"
)

// UserModel is the persistence model for identity.User
type UserModel struct {
	BaseModel
	Email           string `gorm:"type:varchar(254);not null;uniqueIndex"`
	FirstName       string `gorm:"type:varchar(150);not null;default:''"`
	LastName        string `gorm:"type:varchar(150);not null;default:''"`
	PasswordHash    string `gorm:"type:varchar(255);not null"`
	IsStaff         bool   `gorm:"not null;default:false"`
	IsBusinessOwner bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain user
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:      m.BaseModel.ToDomain(),
		Email:           m.Email,
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		PasswordHash:    m.PasswordHash,
		IsStaff:         m.IsStaff,
		IsBusinessOwner: m.IsBusinessOwner,
	}
}

// UserModelFromDomain creates a model from a domain user
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		PasswordHash:    u.PasswordHash,
		IsStaff:         u.IsStaff,
		IsBusinessOwner: u.IsBusinessOwner,
	}
	m.FromDomainBaseEntity(u.BaseEntity)
	return m
}
