package testutil

import (
	"github.com/google/uuid"
	"github.com/nerdgeek/tienda/internal/models"
	"github.com/nerdgeek/tienda/internal/utils"
)

// CreateTestUser creates a user with a hashed password
func CreateTestUser(username, email, password string, active, superuser bool) (*models.User, error) {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Active:       active,
		Superuser:    superuser,
	}, nil
}

// DefaultTestUser returns an active regular customer
func DefaultTestUser() (*models.User, error) {
	return CreateTestUser("cliente", "cliente@example.com", "Test123456", true, false)
}

// DefaultAdminUser returns an active superuser
func DefaultAdminUser() (*models.User, error) {
	return CreateTestUser("admin", "admin@example.com", "Admin123456", true, true)
}

// CreateTestProduct returns an unsaved product fixture
func CreateTestProduct(nombre string, categoria models.ProductCategory) *models.Product {
	return &models.Product{
		Nombre:      nombre,
		Descripcion: "Producto de prueba",
		PrecioBase:  "9990.00",
		Categoria:   categoria,
	}
}

// CreateTestOrder returns an unsaved pending order fixture
func CreateTestOrder(userID uuid.UUID, productID uint) *models.Order {
	return &models.Order{
		UserID:        userID,
		ProductID:     productID,
		ImagenCliente: "pedidos/foto.png",
		Instrucciones: "Quiero que la foto quede centrada",
		Estado:        models.StatusPendiente,
	}
}

// CreateTestMessage returns an unsaved chat message fixture
func CreateTestMessage(orderID uint, senderID uuid.UUID, contenido string) *models.ChatMessage {
	return &models.ChatMessage{
		OrderID:   orderID,
		SenderID:  senderID,
		Contenido: contenido,
	}
}
