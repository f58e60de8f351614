package models

import "time"

type SmartlinkModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	URL       string `gorm:"not null"`
	Weight    int32  `gorm:"not null;default:1"`
	IsActive  bool   `gorm:"not null;default:true;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SmartlinkModel) TableName() string {
	return "smartlinks"
}
