package model

import "time"

// User 账户；邮箱唯一，昵称在写日记/评论时快照到记录上
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"type:varchar(254);uniqueIndex;not null"`
	Nickname  string    `json:"nickname" gorm:"type:varchar(64);not null"`
	Password  string    `json:"-" gorm:"type:varchar(128);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
