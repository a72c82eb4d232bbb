package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"ventas_backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an isolated in-memory database migrated with the full
// schema. cache=shared keeps the database alive across pooled connections.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Wallet{},
		&domain.Transfer{},
		&domain.Product{},
		&domain.StockMovement{},
		&domain.Sale{},
		&domain.Transaction{},
	))
	return db
}

// newTestRouter wires the owned-resource routes without auth middleware. The
// redisClient key is set to nil so handlers skip cache invalidation.
func newTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("redisClient", nil)
		c.Next()
	})
	r.POST("/billeteras", CreateWalletHandler(db))
	r.PUT("/billeteras/:id", UpdateWalletHandler(db))
	r.DELETE("/billeteras/:id", DeleteWalletHandler(db))
	r.GET("/view/balance-total", BalanceTotalHandler(db))
	r.POST("/transferencias", CreateTransferHandler(db))
	r.DELETE("/transferencias/:id", DeleteTransferHandler(db))
	r.POST("/inventarios", CreateProductHandler(db))
	r.PUT("/inventarios/:id", UpdateProductHandler(db))
	r.DELETE("/inventarios/:id", DeleteProductHandler(db))
	r.POST("/movimientos", CreateMovementHandler(db))
	r.PUT("/movimientos/:id", UpdateMovementHandler(db))
	r.DELETE("/movimientos/:id", DeleteMovementHandler(db))
	r.POST("/ventas", CreateSaleHandler(db))
	r.POST("/transacciones", CreateTransactionHandler(db))
	return r
}

// doJSON performs a JSON request against the router and returns the recorder
func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a JSON response body into a generic map
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// createTestUser inserts a user the handlers can resolve by email
func createTestUser(t *testing.T, db *gorm.DB, email string) domain.User {
	t.Helper()
	user := domain.User{Name: "Test", Email: email, Password: "irrelevant", Role: "administrador"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// createTestProduct inserts a product owned by the given user
func createTestProduct(t *testing.T, db *gorm.DB, userID string, stock float64) domain.Product {
	t.Helper()
	product := domain.Product{UserID: userID, Name: "Cafe Molido", Alias: "cafe", UnitPrice: 25, Stock: stock}
	require.NoError(t, db.Create(&product).Error)
	return product
}

// createTestWallet inserts a wallet owned by the given user
func createTestWallet(t *testing.T, db *gorm.DB, userID, name string, balance float64) domain.Wallet {
	t.Helper()
	wallet := domain.Wallet{UserID: userID, Name: name, Balance: balance}
	require.NoError(t, db.Create(&wallet).Error)
	return wallet
}
