package controllers

import (
	"HealthifyGo/config"
	"HealthifyGo/models"
	"HealthifyGo/services"
	"HealthifyGo/utils"

	"github.com/gin-gonic/gin"
)

// AuthController 认证控制器
type AuthController struct {
	users *services.UserService
}

func NewAuthController(users *services.UserService) *AuthController {
	return &AuthController{users: users}
}

// Register 用户名密码注册
func (ac *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "用户名和密码不能为空")
		return
	}

	user, err := ac.users.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "注册成功", models.NewUserResponse(user))
}

// Login 登录并签发令牌
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "用户名和密码不能为空")
		return
	}

	user, err := ac.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		config.Logger.Errorw("令牌生成失败", "error", err, "userID", user.ID)
		respondError(c, err)
		return
	}

	config.Logger.Infow("用户登录", "userID", user.ID)
	respondOK(c, "登录成功", models.LoginResponse{Token: token, User: models.NewUserResponse(user)})
}
