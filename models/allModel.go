package models

import (
	"bitbucket.org/akitdaekm/membership_backend/config"
)

// MigrateTable keeps the schema in sync on boot. Order matters only for
// readability; gorm resolves foreign keys itself.
func MigrateTable() error {
	db := config.GetDB()
	return db.AutoMigrate(
		&Admin{},
		&Member{},
		&Partner{},
		&Payment{},
		&OfficeBearer{},
		&GalleryItem{},
		&NotificationRecord{},
	)
}
