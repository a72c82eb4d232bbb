package api

import (
	"fmt"
	"net/http"
	"testing"

	"ventas_backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMovementSalida(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)
	user := createTestUser(t, db, "ana@example.com")
	product := createTestProduct(t, db, user.ID, 10)

	w := doJSON(t, r, http.MethodPost, "/movimientos", gin.H{
		"producto_id": product.ID,
		"cantidad":    4,
		"tipo":        "salida",
		"fecha":       "2025-03-01",
		"email":       user.Email,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Stock dropped by the quantity
	var got domain.Product
	require.NoError(t, db.First(&got, product.ID).Error)
	assert.Equal(t, 6.0, got.Stock)

	// Exactly one movement row exists
	var count int64
	require.NoError(t, db.Model(&domain.StockMovement{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateMovementSalidaInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)
	user := createTestUser(t, db, "ana@example.com")
	product := createTestProduct(t, db, user.ID, 3)

	body := gin.H{
		"producto_id": product.ID,
		"cantidad":    5,
		"tipo":        "salida",
		"fecha":       "2025-03-01",
		"email":       user.Email,
	}
	// Rejection is idempotent: a retry of the same over-draw yields the same
	// outcome and leaves no partial state behind
	for i := 0; i < 2; i++ {
		w := doJSON(t, r, http.MethodPost, "/movimientos", body)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "No hay suficiente stock disponible", decodeBody(t, w)["message"])

		var got domain.Product
		require.NoError(t, db.First(&got, product.ID).Error)
		assert.Equal(t, 3.0, got.Stock)

		var count int64
		require.NoError(t, db.Model(&domain.StockMovement{}).Count(&count).Error)
		assert.Equal(t, int64(0), count, "no movement row on rejection")
	}
}

func TestCreateMovementEntradaThenSalidaRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)
	user := createTestUser(t, db, "ana@example.com")
	product := createTestProduct(t, db, user.ID, 7)

	for _, tipo := range []string{"entrada", "salida"} {
		w := doJSON(t, r, http.MethodPost, "/movimientos", gin.H{
			"producto_id": product.ID,
			"cantidad":    12,
			"tipo":        tipo,
			"fecha":       "2025-03-01",
			"email":       user.Email,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	var got domain.Product
	require.NoError(t, db.First(&got, product.ID).Error)
	assert.Equal(t, 7.0, got.Stock, "entrada then matching salida returns stock to its original value")
}

func TestCreateMovementUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	w := doJSON(t, r, http.MethodPost, "/movimientos", gin.H{
		"producto_id": 1,
		"cantidad":    1,
		"tipo":        "entrada",
		"fecha":       "2025-03-01",
		"email":       "nadie@example.com",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Usuario no encontrado", decodeBody(t, w)["message"])
}

func TestUpdateMovementRaisesEntrada(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)
	user := createTestUser(t, db, "ana@example.com")
	// Stock 12 with an entrada of 5 already applied
	product := createTestProduct(t, db, user.ID, 12)
	movement := domain.StockMovement{UserID: user.ID, ProductID: product.ID, Type: domain.MovementIn, Quantity: 5, Date: "2025-03-01"}
	require.NoError(t, db.Create(&movement).Error)

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/movimientos/%d", movement.ID), gin.H{
		"producto_id": product.ID,
		"cantidad":    8,
		"tipo":        "entrada",
		"fecha":       "2025-03-01",
		"email":       user.Email,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Only the difference is applied: 12 + (8 - 5) = 15
	var got domain.Product
	require.NoError(t, db.First(&got, product.ID).Error)
	assert.Equal(t, 15.0, got.Stock)

	var updated domain.StockMovement
	require.NoError(t, db.First(&updated, movement.ID).Error)
	assert.Equal(t, 8.0, updated.Quantity)
}

func TestUpdateMovementRejectsNegativeStock(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)
	user := createTestUser(t, db, "ana@example.com")
	product := createTestProduct(t, db, user.ID, 2)
	movement := domain.StockMovement{UserID: user.ID, ProductID: product.ID, Type: domain.MovementOut, Quantity: 1, Date: "2025-03-01"}
	require.NoError(t, db.Create(&movement).Error)

	// Raising the salida from 1 to 9 would need 8 more units than exist
	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/movimientos/%d", movement.ID), gin.H{
		"producto_id": product.ID,
		"cantidad":    9,
		"tipo":        "salida",
		"fecha":       "2025-03-01",
		"email":       user.Email,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No hay suficiente stock disponible", decodeBody(t, w)["message"])

	var got domain.Product
	require.NoError(t, db.First(&got, product.ID).Error)
	assert.Equal(t, 2.0, got.Stock, "stock unchanged on rejection")

	var kept domain.StockMovement
	require.NoError(t, db.First(&kept, movement.ID).Error)
	assert.Equal(t, 1.0, kept.Quantity, "movement unchanged on rejection")
}

func TestDeleteMovementBacksOutEffect(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)
	user := createTestUser(t, db, "ana@example.com")
	// Stock 6 after a salida of 4 was applied
	product := createTestProduct(t, db, user.ID, 6)
	movement := domain.StockMovement{UserID: user.ID, ProductID: product.ID, Type: domain.MovementOut, Quantity: 4, Date: "2025-03-01"}
	require.NoError(t, db.Create(&movement).Error)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/movimientos/%d?email=%s", movement.ID, user.Email), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Movimiento eliminado exitosamente", decodeBody(t, w)["message"])

	// Deleting a salida restores the units it removed
	var got domain.Product
	require.NoError(t, db.First(&got, product.ID).Error)
	assert.Equal(t, 10.0, got.Stock)

	var count int64
	require.NoError(t, db.Model(&domain.StockMovement{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDeleteMovementRejectsNegativeReversal(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)
	user := createTestUser(t, db, "ana@example.com")
	// An entrada of 5 with only 2 units remaining cannot be backed out
	product := createTestProduct(t, db, user.ID, 2)
	movement := domain.StockMovement{UserID: user.ID, ProductID: product.ID, Type: domain.MovementIn, Quantity: 5, Date: "2025-03-01"}
	require.NoError(t, db.Create(&movement).Error)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/movimientos/%d?email=%s", movement.ID, user.Email), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No se puede eliminar el movimiento: el stock resultante sería negativo", decodeBody(t, w)["message"])

	// Record and stock are both untouched
	var count int64
	require.NoError(t, db.Model(&domain.StockMovement{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var got domain.Product
	require.NoError(t, db.First(&got, product.ID).Error)
	assert.Equal(t, 2.0, got.Stock)
}
