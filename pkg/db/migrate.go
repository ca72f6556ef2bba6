package db

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vapecloud/miniapp/pkg/db/models"
	"github.com/vapecloud/miniapp/pkg/enums"
	"github.com/vapecloud/miniapp/pkg/logger"
)

// Migrate creates or updates the schema in place. The original shop managed
// its schema the same way on boot, so there is no external migration tool.
func Migrate(ctx context.Context, client *Client, logg *logger.Logger) error {
	err := client.DB().WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Section{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.PickupLocation{},
		&models.Order{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if logg != nil {
		logg.Info(ctx, "schema migrated")
	}
	return nil
}

// Seed installs the default catalog groupings and fulfillment locations when
// the corresponding tables are empty. Safe to run on every boot.
func Seed(ctx context.Context, client *Client, logg *logger.Logger) error {
	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := seedSections(tx); err != nil {
			return err
		}
		if err := seedCategories(tx); err != nil {
			return err
		}
		return seedLocations(tx)
	})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if logg != nil {
		logg.Info(ctx, "seed data ensured")
	}
	return nil
}

func seedSections(tx *gorm.DB) error {
	defaults := []models.Section{
		{Name: "devices", DisplayName: "Devices", Icon: "📱", SortOrder: 1, IsActive: true},
		{Name: "consumables", DisplayName: "Consumables", Icon: "🧴", SortOrder: 2, IsActive: true},
		{Name: "accessories", DisplayName: "Accessories", Icon: "🧰", SortOrder: 3, IsActive: true},
	}
	for _, section := range defaults {
		err := tx.Where(models.Section{Name: section.Name}).FirstOrCreate(&models.Section{}, section).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func seedCategories(tx *gorm.DB) error {
	sectionIDs := map[string]uint{}
	var sections []models.Section
	if err := tx.Find(&sections).Error; err != nil {
		return err
	}
	for _, s := range sections {
		sectionIDs[s.Name] = s.ID
	}

	sectionRef := func(name string) *uint {
		if id, ok := sectionIDs[name]; ok {
			return &id
		}
		return nil
	}

	defaults := []models.Category{
		{Name: "pods", DisplayName: "Pods", Icon: "🎯", SortOrder: 1, SectionID: sectionRef("devices"), IsActive: true},
		{Name: "mods", DisplayName: "Mods", Icon: "⚡", SortOrder: 2, SectionID: sectionRef("devices"), IsActive: true},
		{Name: "disposable", DisplayName: "Disposables", Icon: "🚬", SortOrder: 3, SectionID: sectionRef("devices"), IsActive: true},
		{Name: "liquids", DisplayName: "Liquids", Icon: "💧", SortOrder: 4, SectionID: sectionRef("consumables"), IsActive: true},
		{Name: "coils", DisplayName: "Coils", Icon: "🔥", SortOrder: 5, SectionID: sectionRef("consumables"), IsActive: true},
		{Name: "batteries", DisplayName: "Batteries", Icon: "🔋", SortOrder: 6, SectionID: sectionRef("accessories"), IsActive: true},
		{Name: "cases", DisplayName: "Cases", Icon: "🎒", SortOrder: 7, SectionID: sectionRef("accessories"), IsActive: true},
	}
	for _, category := range defaults {
		err := tx.Where(models.Category{Name: category.Name}).FirstOrCreate(&models.Category{}, category).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func seedLocations(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&models.PickupLocation{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []models.PickupLocation{
		{Name: "Pickup point 1", Address: "Lenina st. 10", City: "Moscow", LocationType: enums.DeliveryTypePickup, IsActive: true},
		{Name: "Pickup point 2", Address: "Mira ave. 25", City: "Saint Petersburg", LocationType: enums.DeliveryTypePickup, IsActive: true},
		{Name: "Pickup point 3", Address: "Sovetskaya st. 5", City: "Novosibirsk", LocationType: enums.DeliveryTypePickup, IsActive: true},
		{Name: "City delivery", Address: "Courier delivery", City: "Moscow", LocationType: enums.DeliveryTypeDelivery, DeliveryPrice: decimal.NewFromInt(300), IsActive: true},
		{Name: "City delivery", Address: "Courier delivery", City: "Saint Petersburg", LocationType: enums.DeliveryTypeDelivery, DeliveryPrice: decimal.NewFromInt(250), IsActive: true},
		{Name: "City delivery", Address: "Courier delivery", City: "Novosibirsk", LocationType: enums.DeliveryTypeDelivery, DeliveryPrice: decimal.NewFromInt(200), IsActive: true},
	}
	return tx.Create(&defaults).Error
}
