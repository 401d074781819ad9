package models

import "gorm.io/gorm"

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Category{},
		&CakeSize{},
		&Cake{},
		&CakeVariant{},
		&User{},
		&Profile{},
		&RefreshToken{},
		&Order{},
		&OrderItem{},
	)
}
