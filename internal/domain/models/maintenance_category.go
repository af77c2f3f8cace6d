package models

// MaintenanceCategory 表示维修类别字典（水电、门窗等），被工单按ID引用，从不级联删除
type MaintenanceCategory struct {
	BaseModel
	Name     string `gorm:"type:varchar(50);not null" json:"name"`
	Color    string `gorm:"type:varchar(20)" json:"color"` // 前端展示颜色，如"#FF5733"
	Icon     string `gorm:"type:varchar(50)" json:"icon"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

// TableName 指定表名
func (MaintenanceCategory) TableName() string {
	return "maintenance_categories"
}
