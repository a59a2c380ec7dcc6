package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/recipe_go_server/config"
	"github.com/qs3c/recipe_go_server/internal/model"
	"github.com/qs3c/recipe_go_server/internal/model/dto"
	"github.com/qs3c/recipe_go_server/internal/repository"
)

var (
	ErrVoteNotFound   = errors.New("投票不存在")
	ErrVotePermission = errors.New("无权操作此投票")
)

type VoteService struct {
	db       *gorm.DB
	voteRepo *repository.VoteRepository
	postRepo *repository.PostRepository
	cfg      *config.Config
}

func NewVoteService(
	db *gorm.DB,
	voteRepo *repository.VoteRepository,
	postRepo *repository.PostRepository,
	cfg *config.Config,
) *VoteService {
	return &VoteService{
		db:       db,
		voteRepo: voteRepo,
		postRepo: postRepo,
		cfg:      cfg,
	}
}

// Cast 投票。无票则新增并加计数；同型重复投票幂等返回现有票；
// 异型则在现有行上改票型，旧计数减一、新计数加一。
// 行变更与计数调整在同一事务内提交，(post_id, user_id) 唯一键兜底并发重复创建。
func (s *VoteService) Cast(userID int64, req *dto.CastVoteRequest) (*dto.VoteItem, error) {
	var result *model.Vote

	err := s.db.Transaction(func(tx *gorm.DB) error {
		voteRepo := s.voteRepo.WithTx(tx)
		postRepo := s.postRepo.WithTx(tx)

		exists, err := postRepo.ExistsByID(req.PostID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrPostNotFound
		}

		existing, err := voteRepo.GetByPostAndUser(req.PostID, userID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			// 首次投票
			vote := &model.Vote{
				PostID:   req.PostID,
				UserID:   userID,
				VoteType: req.VoteType,
			}
			if err := voteRepo.Create(vote); err != nil {
				return err
			}
			if err := postRepo.IncrementVoteCount(req.PostID, req.VoteType, 1); err != nil {
				return err
			}
			result = vote
			return nil
		}

		if existing.VoteType == req.VoteType {
			// 同型重复投票，幂等返回
			result = existing
			return nil
		}

		// 改票：一减一加作为同一事务提交
		oldType := existing.VoteType
		if err := voteRepo.UpdateType(existing.ID, req.VoteType); err != nil {
			return err
		}
		if err := postRepo.IncrementVoteCount(req.PostID, oldType, -1); err != nil {
			return err
		}
		if err := postRepo.IncrementVoteCount(req.PostID, req.VoteType, 1); err != nil {
			return err
		}

		existing.VoteType = req.VoteType
		result = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	return buildVoteItem(result), nil
}

// Delete 撤票，仅投票者本人可操作。计数回退与删行在同一事务内提交。
func (s *VoteService) Delete(userID, voteID int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		voteRepo := s.voteRepo.WithTx(tx)
		postRepo := s.postRepo.WithTx(tx)

		vote, err := voteRepo.GetByID(voteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVoteNotFound
			}
			return err
		}
		if !isOwner(vote.UserID, userID) {
			return ErrVotePermission
		}

		if err := postRepo.IncrementVoteCount(vote.PostID, vote.VoteType, -1); err != nil {
			return err
		}
		return voteRepo.Delete(voteID)
	})
}

// ListByPost 获取帖子的全部投票
func (s *VoteService) ListByPost(postID int64) ([]*dto.VoteItem, error) {
	votes, err := s.voteRepo.ListByPost(postID)
	if err != nil {
		return nil, err
	}
	return buildVoteItems(votes), nil
}

// ListByUser 获取用户的全部投票
func (s *VoteService) ListByUser(userID int64) ([]*dto.VoteItem, error) {
	votes, err := s.voteRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return buildVoteItems(votes), nil
}

func buildVoteItem(v *model.Vote) *dto.VoteItem {
	return &dto.VoteItem{
		ID:        v.ID,
		PostID:    v.PostID,
		UserID:    v.UserID,
		VoteType:  v.VoteType,
		CreatedAt: v.CreatedAt.Format(time.RFC3339),
	}
}

func buildVoteItems(votes []*model.Vote) []*dto.VoteItem {
	items := make([]*dto.VoteItem, len(votes))
	for i, v := range votes {
		items[i] = buildVoteItem(v)
	}
	return items
}
