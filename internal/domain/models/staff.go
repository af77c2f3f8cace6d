package models

import (
	"gorm.io/gorm"

	"huntersrun-http-service/utils"
)

// Staff 表示物业员工账户，角色决定其对维修工单的操作范围
type Staff struct {
	BaseModel
	CompanyID uint   `gorm:"not null;index" json:"company_id"`
	Name      string `gorm:"type:varchar(50);not null" json:"name"`
	Phone     string `gorm:"type:varchar(20);unique;not null" json:"phone"`
	Position  string `gorm:"type:varchar(50)" json:"position"`
	Role      string `gorm:"type:varchar(20);not null" json:"role"`           // admin, manager, maintenance
	Status    string `gorm:"type:varchar(20);default:'active'" json:"status"` // active, inactive, suspended
	Remark    string `gorm:"type:text" json:"remark"`
	Username  string `gorm:"type:varchar(50);unique;not null" json:"username"`
	Password  string `gorm:"type:varchar(100);not null" json:"-"` // 不在JSON中暴露密码

	// 关联关系
	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (s *Staff) BeforeCreate(tx *gorm.DB) error {
	// 如果提供了密码，对其进行哈希处理
	if s.Password != "" && !utils.IsBcryptHash(s.Password) {
		hashedPassword, err := utils.HashPassword(s.Password)
		if err != nil {
			return err
		}
		s.Password = hashedPassword
	}
	return nil
}
