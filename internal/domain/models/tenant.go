package models

import (
	"gorm.io/gorm"

	"huntersrun-http-service/utils"
)

// Tenant 表示租户账户
type Tenant struct {
	BaseModel
	CompanyID  uint   `gorm:"not null;index" json:"company_id"`
	PropertyID uint   `gorm:"not null;index" json:"property_id"`
	UnitID     *uint  `gorm:"index" json:"unit_id"`
	Name       string `gorm:"type:varchar(50);not null" json:"name"`
	Email      string `gorm:"type:varchar(100)" json:"email"`
	Phone      string `gorm:"type:varchar(20);not null" json:"phone"`
	Username   string `gorm:"type:varchar(50);unique;not null" json:"username"`
	Password   string `gorm:"type:varchar(100);not null" json:"-"` // 不在JSON中暴露密码
	Status     string `gorm:"type:varchar(20);default:'active'" json:"status"`

	// 关联关系
	Company  *Company  `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Unit     *Unit     `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	// 如果提供了密码，对其进行哈希处理
	if t.Password != "" && !utils.IsBcryptHash(t.Password) {
		hashedPassword, err := utils.HashPassword(t.Password)
		if err != nil {
			return err
		}
		t.Password = hashedPassword
	}
	return nil
}
