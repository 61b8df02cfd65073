package repository

import "gorm.io/gorm"

// Migrate creates the schema for every repository-owned table. Production
// deployments run SQL migrations instead; this backs the seeder and the
// in-memory test databases.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&tenantModel{},
		&userModel{},
		&roomModel{},
		&seasonalRateModel{},
		&addOnModel{},
		&bookingModel{},
		&bookingAddOnModel{},
	)
}
