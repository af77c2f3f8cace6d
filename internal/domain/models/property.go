package models

// Property 表示物业小区/园区，归属于唯一一家物业公司
type Property struct {
	BaseModel
	CompanyID    uint   `gorm:"not null;index" json:"company_id"`
	PropertyName string `gorm:"type:varchar(100);not null" json:"property_name"`
	PropertyCode string `gorm:"type:varchar(20);unique;not null" json:"property_code"`
	Address      string `gorm:"type:varchar(200)" json:"address"`
	Status       string `gorm:"type:varchar(20);default:'active'" json:"status"` // active, inactive

	// 关联关系
	Company   *Company   `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Buildings []Building `gorm:"foreignKey:PropertyID" json:"buildings,omitempty"`
	Units     []Unit     `gorm:"foreignKey:PropertyID" json:"units,omitempty"`
}
