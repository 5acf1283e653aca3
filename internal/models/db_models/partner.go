package db_models

type Partner struct {
	BaseModel
	Code string `gorm:"size:32;uniqueIndex;not null"`
	Name string `gorm:"size:128;not null"`
}
