package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/qs3c/recipe_go_server/internal/model"
)

var fixtureSeq int64

func nextSeq() int64 {
	return atomic.AddInt64(&fixtureSeq, 1)
}

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	seq := nextSeq()
	email := fmt.Sprintf("test_%d@example.com", seq)
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Username:      fmt.Sprintf("testuser_%d", seq),
		Email:         &email,
		PasswordHash:  &passwordHash,
		EmailVerified: true,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// WithFollowCounts 设置冗余关注计数
func WithFollowCounts(following, followers int) func(*model.User) {
	return func(u *model.User) {
		u.FollowingCount = following
		u.FollowersCount = followers
	}
}

// TestPost 创建测试帖子
func TestPost(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Post)) *model.Post {
	t.Helper()

	post := &model.Post{
		UserID:      userID,
		Title:       fmt.Sprintf("Test Post %d", nextSeq()),
		ContentType: model.PostTypeRecipe,
		Content:     "番茄炒蛋：两个番茄三个蛋，大火快炒。",
	}

	for _, opt := range opts {
		opt(post)
	}

	if err := db.Create(post).Error; err != nil {
		t.Fatalf("Failed to create test post: %v", err)
	}

	return post
}

// WithTitle 设置帖子标题
func WithTitle(title string) func(*model.Post) {
	return func(p *model.Post) {
		p.Title = title
	}
}

// WithContentType 设置帖子类型
func WithContentType(contentType string) func(*model.Post) {
	return func(p *model.Post) {
		p.ContentType = contentType
	}
}

// WithCounters 设置冗余计数
func WithCounters(upvotes, downvotes, comments int) func(*model.Post) {
	return func(p *model.Post) {
		p.UpvoteCount = upvotes
		p.DownvoteCount = downvotes
		p.CommentCount = comments
	}
}

// TestComment 创建测试评论
func TestComment(t *testing.T, db *gorm.DB, userID, postID int64, content string) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		UserID:  userID,
		PostID:  postID,
		Content: content,
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test comment: %v", err)
	}

	return comment
}

// TestReply 创建测试回复
func TestReply(t *testing.T, db *gorm.DB, userID, postID, parentID int64, content string) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		UserID:   userID,
		PostID:   postID,
		ParentID: &parentID,
		Content:  content,
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test reply: %v", err)
	}

	return comment
}

// TestVote 创建测试投票
func TestVote(t *testing.T, db *gorm.DB, userID, postID int64, voteType string) *model.Vote {
	t.Helper()

	vote := &model.Vote{
		UserID:   userID,
		PostID:   postID,
		VoteType: voteType,
	}

	if err := db.Create(vote).Error; err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	return vote
}

// TestFollow 创建测试关注关系
func TestFollow(t *testing.T, db *gorm.DB, followerID, followingID int64) *model.Follow {
	t.Helper()

	follow := &model.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
	}

	if err := db.Create(follow).Error; err != nil {
		t.Fatalf("Failed to create test follow: %v", err)
	}

	return follow
}
