package controllers

import (
	"github.com/gin-gonic/gin"

	"huntersrun-http-service/internal/domain/models"
	"huntersrun-http-service/internal/domain/services"
	"huntersrun-http-service/internal/domain/services/container"
	"huntersrun-http-service/internal/error/code"
	"huntersrun-http-service/internal/error/response"
	"huntersrun-http-service/utils"
)

// InterfaceJWTController 定义认证控制器接口
type InterfaceJWTController interface {
	Login()
}

// JWTController 处理身份验证请求
type JWTController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewJWTController 创建一个新的认证控制器
func NewJWTController(ctx *gin.Context, container *container.ServiceContainer) *JWTController {
	return &JWTController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest 表示登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// LoginResponse 表示登录响应
type LoginResponse struct {
	Code    int         `json:"code" example:"0"`
	Message string      `json:"message" example:"Login successful"`
	Data    interface{} `json:"data"`
}

// LoginData 表示登录成功后返回的数据
type LoginData struct {
	Token     string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	UserID    uint   `json:"user_id" example:"1"`
	CompanyID uint   `json:"company_id" example:"1"`
	Role      string `json:"role" example:"admin"`
	Username  string `json:"username" example:"admin"`
}

// ErrorResponse 表示错误响应
type ErrorResponse struct {
	Code    int         `json:"code" example:"401"`
	Message string      `json:"message" example:"Invalid username or password"`
	Data    interface{} `json:"data"`
}

// HandleJWTFunc 返回一个处理JWT认证请求的Gin处理函数
func HandleJWTFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewJWTController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// Login 处理用户登录
// @Summary      User Login
// @Description  Process staff or tenant login and return a JWT carrying user, company and role
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login request parameters"
// @Success      200  {object}  LoginResponse{data=LoginData}  "Success response with token"
// @Failure      400  {object}  ErrorResponse  "Bad request"
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /auth/login [post]
func (c *JWTController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	db := c.Container.GetDB()
	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)

	// 尝试查找物业员工
	var staff models.Staff
	if err := db.Where("username = ?", req.Username).First(&staff).Error; err == nil {
		if staff.Status != "active" {
			response.Unauthorized(c.Ctx)
			return
		}
		if utils.CheckPasswordHash(req.Password, staff.Password) {
			token, err := jwtService.GenerateToken(staff.ID, staff.CompanyID, staff.Role)
			if err != nil {
				response.FailWithMessage(c.Ctx, code.ErrDatabase, "生成令牌失败", nil)
				return
			}

			response.Success(c.Ctx, gin.H{
				"token":      token,
				"user_id":    staff.ID,
				"company_id": staff.CompanyID,
				"role":       staff.Role,
				"username":   staff.Username,
			})
			return
		}
	}

	// 尝试查找租户
	var tenant models.Tenant
	if err := db.Where("username = ?", req.Username).First(&tenant).Error; err == nil {
		if tenant.Status != "active" {
			response.Unauthorized(c.Ctx)
			return
		}
		if utils.CheckPasswordHash(req.Password, tenant.Password) {
			token, err := jwtService.GenerateToken(tenant.ID, tenant.CompanyID, models.RoleTenant)
			if err != nil {
				response.FailWithMessage(c.Ctx, code.ErrDatabase, "生成令牌失败", nil)
				return
			}

			response.Success(c.Ctx, gin.H{
				"token":      token,
				"user_id":    tenant.ID,
				"company_id": tenant.CompanyID,
				"role":       models.RoleTenant,
				"username":   tenant.Username,
			})
			return
		}
	}

	// 用户名或密码无效
	response.Unauthorized(c.Ctx)
}
