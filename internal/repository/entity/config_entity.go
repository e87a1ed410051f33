package entity

import "time"

// ConfigEntity is a single key/value row in the flat configuration store
// (spec.md §6).
type ConfigEntity struct {
	Key       string `gorm:"primaryKey;type:varchar(255)"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ConfigEntity) TableName() string {
	return "maowbot_config"
}
