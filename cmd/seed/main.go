// Command seed populates the store with a demo admin, a customer, and a
// small clothing catalog. Safe to run repeatedly: existing emails and
// category names are left alone.
package main

import (
	"log"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wearhouse/internal/config"
	"wearhouse/internal/db"
	"wearhouse/internal/model"
)

func main() {
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	if err := seedUsers(gormDB); err != nil {
		log.Fatalf("seed users: %v", err)
	}
	catIDs, err := seedCategories(gormDB)
	if err != nil {
		log.Fatalf("seed categories: %v", err)
	}
	if err := seedProducts(gormDB, catIDs); err != nil {
		log.Fatalf("seed products: %v", err)
	}

	log.Println("seed complete")
}

func seedUsers(gormDB *gorm.DB) error {
	users := []struct {
		name, email, password string
		isAdmin               bool
	}{
		{"Admin", "admin@wearhouse.test", "Passw0rd!", true},
		{"Alice", "alice@wearhouse.test", "Passw0rd!", false},
		{"Bob", "bob@wearhouse.test", "Passw0rd!", false},
	}

	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), 10)
		if err != nil {
			return err
		}
		user := model.User{
			Name:         u.name,
			Email:        u.email,
			PasswordHash: string(hash),
			IsAdmin:      u.isAdmin,
		}
		if err := gormDB.Clauses(clause.OnConflict{DoNothing: true}).Create(&user).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedCategories(gormDB *gorm.DB) (map[string]model.Category, error) {
	names := []string{"Shirts", "Shoes", "Accessories"}
	out := make(map[string]model.Category, len(names))
	for _, name := range names {
		cat := model.Category{Name: name}
		if err := gormDB.Clauses(clause.OnConflict{DoNothing: true}).Create(&cat).Error; err != nil {
			return nil, err
		}
		// Re-read so a pre-existing row wins over the fresh UUID.
		if err := gormDB.Where("name = ?", name).First(&cat).Error; err != nil {
			return nil, err
		}
		out[name] = cat
	}
	return out, nil
}

func seedProducts(gormDB *gorm.DB, cats map[string]model.Category) error {
	products := []struct {
		name, desc, price, category string
		stock                       int
	}{
		{"Oxford Shirt", "Classic cotton oxford, slim fit.", "34.99", "Shirts", 25},
		{"Linen Shirt", "Breathable linen for warm days.", "42.50", "Shirts", 12},
		{"Canvas Sneakers", "Low-top canvas sneakers.", "54.00", "Shoes", 30},
		{"Leather Belt", "Full-grain leather, brass buckle.", "19.90", "Accessories", 40},
	}

	for _, p := range products {
		var existing int64
		if err := gormDB.Model(&model.Product{}).Where("name = ?", p.name).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			continue
		}
		price, err := decimal.NewFromString(p.price)
		if err != nil {
			return err
		}
		cat, ok := cats[p.category]
		if !ok {
			continue
		}
		catID := cat.ID
		product := model.Product{
			Name:         p.name,
			Description:  p.desc,
			Price:        price,
			CountInStock: p.stock,
			CategoryID:   &catID,
		}
		if err := gormDB.Create(&product).Error; err != nil {
			return err
		}
	}
	return nil
}
