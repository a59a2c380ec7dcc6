package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/recipe_go_server/internal/api/middleware"
	"github.com/qs3c/recipe_go_server/internal/model/dto"
	"github.com/qs3c/recipe_go_server/internal/pkg/response"
	"github.com/qs3c/recipe_go_server/internal/service"
)

type FollowHandler struct {
	followService *service.FollowService
}

func NewFollowHandler(followService *service.FollowService) *FollowHandler {
	return &FollowHandler{
		followService: followService,
	}
}

// Follow 关注用户，重复关注幂等返回
// POST /api/v1/users/:id/follow
func (h *FollowHandler) Follow(c *gin.Context) {
	followerID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	followingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的用户ID")
		return
	}

	item, err := h.followService.Follow(followerID, followingID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfFollow):
			response.RelationError(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "关注成功", item)
}

// Unfollow 取消关注
// DELETE /api/v1/users/:id/follow
func (h *FollowHandler) Unfollow(c *gin.Context) {
	followerID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	followingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的用户ID")
		return
	}

	if err := h.followService.Unfollow(followerID, followingID); err != nil {
		switch {
		case errors.Is(err, service.ErrFollowNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "取消关注成功", nil)
}

// GetFollowers 获取粉丝列表
// GET /api/v1/users/:id/followers
func (h *FollowHandler) GetFollowers(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的用户ID")
		return
	}

	items, err := h.followService.GetFollowers(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
		} else {
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, items)
}

// GetFollowing 获取关注列表
// GET /api/v1/users/:id/following
func (h *FollowHandler) GetFollowing(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的用户ID")
		return
	}

	items, err := h.followService.GetFollowing(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
		} else {
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, items)
}

// GetStatus 查询是否已关注
// GET /api/v1/users/:id/follow-status
func (h *FollowHandler) GetStatus(c *gin.Context) {
	followerID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	followingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的用户ID")
		return
	}

	following, err := h.followService.GetFollowStatus(followerID, followingID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, dto.FollowStatusResponse{Following: following})
}

// GetFollowersCount 获取粉丝数
// GET /api/v1/users/:id/followers/count
func (h *FollowHandler) GetFollowersCount(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的用户ID")
		return
	}

	count, err := h.followService.GetFollowersCount(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
		} else {
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, dto.FollowCountResponse{Count: count})
}

// GetFollowingCount 获取关注数
// GET /api/v1/users/:id/following/count
func (h *FollowHandler) GetFollowingCount(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的用户ID")
		return
	}

	count, err := h.followService.GetFollowingCount(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
		} else {
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, dto.FollowCountResponse{Count: count})
}
