package handlers

import (
	"net/http"

	"github.com/3Eeeecho/go-tinybox/internal/pkg/utils"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/xerr"
	"github.com/3Eeeecho/go-tinybox/internal/services/admin"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService admin.UserService
}

func NewUserHandler(userService admin.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// @Summary 获取当前用户信息
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} xerr.Response{data=admin.UserProfile}
// @Failure 401 {object} xerr.Response "未认证"
// @Failure 404 {object} xerr.Response "用户不存在"
// @Router /api/v1/users/me [get]
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetUserProfile(c.Request.Context(), userID)
	if err != nil {
		xerr.ErrorFrom(c, err)
		return
	}
	xerr.Success(c, http.StatusOK, "User profile retrieved successfully", profile)
}
