package model

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// 顧客。認証は外部IdPで、ここではsub(=ID)の解決先だけを持つ。
type Customer struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string    `gorm:"type:varchar(255)" json:"name"`
	Email            string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone            string    `gorm:"type:varchar(30)" json:"phone"`
	Role             Role      `gorm:"type:varchar(20);not null;default:'customer'" json:"role"`
	IsActive         bool      `gorm:"not null;default:true" json:"is_active"`
	NewsletterOptIn  bool      `gorm:"not null;default:false" json:"newsletter_opt_in"`
	RegistrationDate time.Time `gorm:"not null;autoCreateTime" json:"registration_date"`
	UpdatedAt        time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
