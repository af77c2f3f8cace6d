package models

// Building 表示物业内的楼号信息
type Building struct {
	BaseModel
	PropertyID   uint   `gorm:"not null;index" json:"property_id"`
	BuildingName string `gorm:"type:varchar(50);not null" json:"building_name"`        // 楼号名称，如"1号楼"
	BuildingCode string `gorm:"type:varchar(20);unique;not null" json:"building_code"` // 楼号编码，如"B001"
	Status       string `gorm:"type:varchar(20);default:'active'" json:"status"`       // active, inactive

	// 关联关系
	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Units    []Unit    `gorm:"foreignKey:BuildingID" json:"units,omitempty"`
}
