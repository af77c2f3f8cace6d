package utils

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword 对员工/租户账户密码做bcrypt哈希，模型钩子和播种逻辑共用
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash 校验登录密码和存储的哈希是否匹配
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IsBcryptHash 判断取值是否已经是bcrypt哈希，避免模型钩子二次哈希
func IsBcryptHash(value string) bool {
	return len(value) == 60 && strings.HasPrefix(value, "$2")
}
