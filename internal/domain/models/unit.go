package models

// Unit 表示可出租的房间/户号，归属物业，可选归属某个楼号
type Unit struct {
	BaseModel
	PropertyID uint   `gorm:"not null;index" json:"property_id"`
	BuildingID *uint  `gorm:"index" json:"building_id"`
	UnitNumber string `gorm:"type:varchar(20);not null" json:"unit_number"` // 户号，如"1-101"
	Floor      int    `json:"floor"`
	Status     string `gorm:"type:varchar(20);default:'active'" json:"status"` // active, inactive

	// 关联关系
	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Building *Building `gorm:"foreignKey:BuildingID" json:"building,omitempty"`
	Tenants  []Tenant  `gorm:"foreignKey:UnitID" json:"tenants,omitempty"`
}
