package model

import (
	"strings"
	"time"
)

// 顧客の配送先住所（アドレス帳）
type Address struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID int64 `gorm:"not null;index" json:"customer_id"`

	//宛名
	Name  string `gorm:"type:varchar(255);not null" json:"name"`
	Phone string `gorm:"type:varchar(30)" json:"phone"`

	//番地など
	Line1 string `gorm:"type:varchar(255);not null" json:"line1"`
	//建物名など
	Line2 string `gorm:"type:varchar(255)" json:"line2"`

	City    string `gorm:"type:varchar(255);not null" json:"city"`
	State   string `gorm:"type:varchar(100);not null" json:"state"`
	ZipCode string `gorm:"type:varchar(20);not null" json:"zip_code"`

	//顧客ごとに1件だけtrue
	IsDefault bool `gorm:"not null;default:false" json:"is_default"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// ToShipping は注文に焼き付ける形にする。emailは住所側に無いので呼び出し側で埋める。
func (a Address) ToShipping(email string) ShippingInfo {
	return ShippingInfo{
		Name:    a.Name,
		Email:   email,
		Phone:   a.Phone,
		Address: strings.TrimSpace(a.Line1 + " " + a.Line2),
		City:    a.City,
		State:   a.State,
		ZipCode: a.ZipCode,
	}
}
