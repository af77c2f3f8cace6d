package models

// Company 表示物业公司。一个工单经由物业最终归属于唯一一家公司，跨公司访问一律拒绝。
type Company struct {
	BaseModel
	CompanyName string `gorm:"type:varchar(100);not null" json:"company_name"`
	CompanyCode string `gorm:"type:varchar(20);unique;not null" json:"company_code"`
	Status      string `gorm:"type:varchar(20);default:'active'" json:"status"` // active, inactive

	// 关联关系
	Properties []Property `gorm:"foreignKey:CompanyID" json:"properties,omitempty"`
}
