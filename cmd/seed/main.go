package main

import (
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/nerdgeek/tienda/internal/config"
	"github.com/nerdgeek/tienda/internal/database"
	"github.com/nerdgeek/tienda/internal/models"
	"github.com/nerdgeek/tienda/internal/utils"
)

func main() {
	cfg := config.Load()
	database.Connect(cfg)
	database.Migrate()

	adminUsername := os.Getenv("ADMIN_USERNAME")
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminUsername == "" || adminEmail == "" || adminPassword == "" {
		log.Fatal("Missing environment variables: ADMIN_USERNAME, ADMIN_EMAIL, ADMIN_PASSWORD")
	}

	// Check if admin with this email already exists
	var admin models.User
	result := database.DB.Where("email = ?", adminEmail).First(&admin)

	if result.Error == nil {
		log.Println("Admin user already exists:", admin.Username)
		seedProducts()
		return
	}

	passwordHash, err := utils.HashPassword(adminPassword)
	if err != nil {
		log.Fatal("Failed to hash admin password:", err)
	}

	admin = models.User{
		ID:           uuid.New(),
		Username:     adminUsername,
		Email:        adminEmail,
		PasswordHash: passwordHash,
		Active:       true,
		Superuser:    true,
	}

	if err := database.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Println("Admin user created:", admin.Username)
	seedProducts()
}

func seedProducts() {
	var count int64
	database.DB.Model(&models.Product{}).Count(&count)
	if count > 0 {
		log.Println("Products already seeded")
		return
	}

	products := []models.Product{
		{
			Nombre:      "Tazón personalizado",
			Descripcion: "Tazón de cerámica sublimado con la imagen que quieras.",
			PrecioBase:  "5990.00",
			Categoria:   models.CategorySublimacion,
		},
		{
			Nombre:      "Polera estampada",
			Descripcion: "Polera de algodón con transfer de tu diseño.",
			PrecioBase:  "9990.00",
			Categoria:   models.CategoryTransfer,
		},
		{
			Nombre:      "Foto enmarcada",
			Descripcion: "Impresión fotográfica en marco de madera 30x40.",
			PrecioBase:  "14990.00",
			Categoria:   models.CategoryFotografia,
		},
	}

	if err := database.DB.Create(&products).Error; err != nil {
		log.Fatal("Failed to seed products:", err)
	}

	log.Printf("Seeded %d products", len(products))
}
