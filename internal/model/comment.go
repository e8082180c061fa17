package model

import "time"

// Comment 日记评论，随日记删除
type Comment struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	DiaryID     uint      `json:"diary_id" gorm:"not null;index:idx_comment_diary_created"`
	CreatedByID uint      `json:"created_by_id" gorm:"not null;index"`
	Nickname    string    `json:"nickname" gorm:"type:varchar(64)"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"index:idx_comment_diary_created"`
	UpdatedAt   time.Time `json:"updated_at"`

	// 只用于建立外键，日记删除时级联删除评论
	Diary *Diary `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (Comment) TableName() string { return "comments" }
