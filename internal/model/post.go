package model

import (
	"time"
)

// 帖子类型
const (
	PostTypeRecipe = "recipe"
	PostTypeTip    = "tip"
	PostTypeOther  = "other"
)

type Post struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	UserID        int64     `gorm:"not null;index" json:"user_id"`
	Title         string    `gorm:"size:255;not null;index" json:"title"`
	ContentType   string    `gorm:"size:20;not null;index" json:"content_type"` // recipe, tip, other
	Content       string    `gorm:"type:text;not null" json:"content"`
	CoverURL      string    `gorm:"size:500" json:"cover_url"`
	UpvoteCount   int       `gorm:"default:0;index" json:"upvote_count"`
	DownvoteCount int       `gorm:"default:0" json:"downvote_count"`
	CommentCount  int       `gorm:"default:0" json:"comment_count"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// 关联
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}
