package domain

import "gorm.io/gorm"

// Banner 首页轮播图
type Banner struct {
	gorm.Model
	Title    string `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Image    string `gorm:"column:image;type:varchar(512);not null" json:"image"`
	Link     string `gorm:"column:link;type:varchar(512)" json:"link"`
	Position int    `gorm:"column:position;not null;default:0" json:"position"`
	Active   bool   `gorm:"column:active;not null;default:true" json:"active"`
}

func (Banner) TableName() string { return "banners" }
