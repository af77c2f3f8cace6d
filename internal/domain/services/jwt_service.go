package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"huntersrun-http-service/internal/domain/models"
	"huntersrun-http-service/internal/infrastructure/config"
)

// InterfaceJWTService 定义JWT服务接口
type InterfaceJWTService interface {
	GenerateToken(userID, companyID uint, role string) (string, error)
	ValidateToken(tokenString string) (*jwt.Token, error)
	ExtractIdentity(tokenString string) (*models.Identity, error)
}

// JWTService 提供JWT相关服务
type JWTService struct {
	secretKey string
	issuer    string
}

// JWTClaims 定义JWT令牌的声明结构
type JWTClaims struct {
	UserID    uint   `json:"user_id"`
	CompanyID uint   `json:"company_id"` // 所属物业公司，可见范围判定依赖该字段
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// NewJWTService 创建一个新的JWT服务
func NewJWTService(cfg *config.Config) InterfaceJWTService {
	return &JWTService{
		secretKey: cfg.JWTSecretKey,
		issuer:    "huntersrun-http-service",
	}
}

// GenerateToken 生成JWT令牌
func (s *JWTService) GenerateToken(userID, companyID uint, role string) (string, error) {
	// 令牌有效期为24小时
	expirationTime := time.Now().Add(24 * time.Hour)

	claims := &JWTClaims{
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// ValidateToken 验证JWT令牌
func (s *JWTService) ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
}

// ExtractIdentity 从令牌中提取调用方身份上下文
func (s *JWTService) ExtractIdentity(tokenString string) (*models.Identity, error) {
	token, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("无效的令牌声明")
	}

	identity := &models.Identity{}

	// 提取用户ID
	if userID, ok := claims["user_id"].(float64); ok {
		identity.UserID = uint(userID)
	}

	// 提取公司ID
	if companyID, ok := claims["company_id"].(float64); ok {
		identity.CompanyID = uint(companyID)
	}

	// 提取角色
	if role, ok := claims["role"].(string); ok {
		identity.Role = role
	}

	if identity.UserID == 0 || identity.Role == "" {
		return nil, errors.New("令牌缺少身份信息")
	}

	return identity, nil
}
