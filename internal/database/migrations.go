package database

import (
	"gorm.io/gorm"

	"github.com/lofohq/lofo-server/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ItemReport{},
		&models.CityAlert{},
		&models.UserAlertState{},
		&models.Category{},
		&models.AbuseReport{},
	)
}

// defaultCatalog mirrors the category/sub-item lists the mobile app ships
// with. Administrators can edit these after first boot; seeding never
// overwrites existing rows.
var defaultCatalog = map[string][]string{
	"Electronics": {"Mobile Phone", "Laptop", "Smart Watch", "Tablet", "Headphones", "Camera", "Power Bank", "Charger", "Speaker"},
	"Documents":   {"CNIC", "Passport", "Driving License", "Student ID", "Employee ID", "Degree/Certificate", "File/Folder", "Cheque Book"},
	"Wallet":      {"Men Wallet", "Women Purse", "Card Holder", "Clutch"},
	"Pets":        {"Cat", "Dog", "Bird", "Parrot"},
	"Keys":        {"Car Key", "Bike Key", "House Key", "Office Key", "Key Chain"},
	"Bag":         {"Backpack", "Handbag", "Laptop Bag", "Luggage", "Gym Bag"},
	"Clothing":    {"Jacket", "Coat", "Shawl", "Shoes", "Glasses"},
	"Vehicle":     {"Car", "Motorbike", "Bicycle", "Rickshaw"},
	"Jewelry":     {"Ring", "Necklace", "Bracelet", "Earrings", "Gold Chain"},
	"Accessories": {"Watch", "Sunglasses", "Cap", "Belt", "Umbrella"},
	"Mobile Phone": {"iPhone", "Samsung", "Infinix", "Tecno", "Xiaomi", "Oppo", "Vivo", "Realme"},
	"Other":       {},
}

// SeedData populates the default item category catalog.
func SeedData(db *gorm.DB) error {
	for name, items := range defaultCatalog {
		category := models.Category{
			Name:  name,
			Items: models.EncodeItems(items),
		}
		if err := db.Where(models.Category{Name: name}).Attrs(category).FirstOrCreate(&models.Category{}).Error; err != nil {
			return err
		}
	}
	return nil
}
