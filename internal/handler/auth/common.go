package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pomelo/internal/model/auth"
	"pomelo/internal/service"
)

// ErrorResponse 错误响应（所有API共用）
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// UserInfo 用户信息（响应用，不含密码）
type UserInfo struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	Avatar            string `json:"avatar,omitempty"`
	Bio               string `json:"bio,omitempty"`
	Likes             int    `json:"likes"`
	Reports           int    `json:"reports"`
	ContributionScore int    `json:"contribution_score"`
	LastLoginAt       string `json:"last_login_at,omitempty"`
	CreatedAt         string `json:"created_at"`
}

// toUserInfo 将User实体转换为UserInfo（所有API共用）
func toUserInfo(user *auth.User) UserInfo {
	info := UserInfo{
		ID:                user.ID,
		Username:          user.Username,
		Email:             user.Email,
		Name:              user.Name,
		Avatar:            user.Avatar,
		Bio:               user.Bio,
		Likes:             user.Likes,
		Reports:           user.Reports,
		ContributionScore: user.ContributionScore,
	}

	if user.LastLoginAt != nil {
		info.LastLoginAt = user.LastLoginAt.Format(time.RFC3339)
	}
	info.CreatedAt = user.CreatedAt.Format(time.RFC3339)

	return info
}

// respondError 按错误类型转换为 HTTP 状态码和业务错误码
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := 50001

	switch {
	case errors.Is(err, service.ErrUserAlreadyExists):
		status, code = http.StatusBadRequest, 40001
	case errors.Is(err, service.ErrEmailTaken):
		status, code = http.StatusBadRequest, 40002
	case errors.Is(err, service.ErrWeakPassword):
		status, code = http.StatusBadRequest, 40003
	case errors.Is(err, service.ErrUserNotFound):
		status, code = http.StatusNotFound, 40401
	case errors.Is(err, service.ErrInvalidPassword):
		status, code = http.StatusUnauthorized, 40103
	}

	c.JSON(status, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}
