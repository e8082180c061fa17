package model

import "time"

// Diary 日记，每个用户每天最多一篇
type Diary struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	CreatedByID uint   `json:"created_by_id" gorm:"not null;uniqueIndex:ux_diary_owner_date"`
	Nickname    string `json:"nickname" gorm:"type:varchar(64)"`
	// Date 形如 2006-01-02
	// ux_diary_owner_date = (created_by_id, date)
	Date      string    `json:"date" gorm:"type:varchar(10);not null;uniqueIndex:ux_diary_owner_date"`
	Content   string    `json:"content" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Diary) TableName() string { return "diaries" }
