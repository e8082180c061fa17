package model

import "time"

// Fan 粉丝关系（B 的粉丝是 A）冗余自 Follow，用于按被关注者分页
type Fan struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	UserID    uint   `gorm:"not null;index:idx_fan_user;index:idx_fan_pair,unique"`
	FanID     uint   `gorm:"not null;index:idx_fan_pair,unique"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Fan) TableName() string { return "fans" }
