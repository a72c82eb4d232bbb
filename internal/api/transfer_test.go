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

func TestCreateTransfer(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)
	user := createTestUser(t, db, "ana@example.com")
	source := createTestWallet(t, db, user.ID, "Banco", 100)
	dest := createTestWallet(t, db, user.ID, "Efectivo", 0)

	w := doJSON(t, r, http.MethodPost, "/transferencias", gin.H{
		"billetera_origen":  "Banco",
		"billetera_destino": "Efectivo",
		"monto":             40,
		"fecha":             "2025-03-01",
		"email":             user.Email,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Source debited, destination credited, total conserved
	var gotSource, gotDest domain.Wallet
	require.NoError(t, db.First(&gotSource, source.ID).Error)
	require.NoError(t, db.First(&gotDest, dest.ID).Error)
	assert.Equal(t, 60.0, gotSource.Balance)
	assert.Equal(t, 40.0, gotDest.Balance)
	assert.Equal(t, 100.0, gotSource.Balance+gotDest.Balance)

	// A ledger row records the transfer
	var count int64
	require.NoError(t, db.Model(&domain.Transfer{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateTransferInsufficientFunds(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)
	user := createTestUser(t, db, "ana@example.com")
	source := createTestWallet(t, db, user.ID, "Banco", 20)
	dest := createTestWallet(t, db, user.ID, "Efectivo", 5)

	body := gin.H{
		"billetera_origen":  "Banco",
		"billetera_destino": "Efectivo",
		"monto":             50,
		"fecha":             "2025-03-01",
		"email":             user.Email,
	}
	// Rejection is idempotent: retrying the same over-draw yields the same
	// outcome with no partial state
	for i := 0; i < 2; i++ {
		w := doJSON(t, r, http.MethodPost, "/transferencias", body)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Saldo insuficiente en la billetera de origen", decodeBody(t, w)["message"])

		var gotSource, gotDest domain.Wallet
		require.NoError(t, db.First(&gotSource, source.ID).Error)
		require.NoError(t, db.First(&gotDest, dest.ID).Error)
		assert.Equal(t, 20.0, gotSource.Balance)
		assert.Equal(t, 5.0, gotDest.Balance)

		var count int64
		require.NoError(t, db.Model(&domain.Transfer{}).Count(&count).Error)
		assert.Equal(t, int64(0), count, "no transfer row on rejection")
	}
}

func TestCreateTransferExactBalance(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)
	user := createTestUser(t, db, "ana@example.com")
	source := createTestWallet(t, db, user.ID, "Banco", 50)
	createTestWallet(t, db, user.ID, "Efectivo", 0)

	// Moving the full balance is allowed
	w := doJSON(t, r, http.MethodPost, "/transferencias", gin.H{
		"billetera_origen":  "Banco",
		"billetera_destino": "Efectivo",
		"monto":             50,
		"fecha":             "2025-03-01",
		"email":             user.Email,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var gotSource domain.Wallet
	require.NoError(t, db.First(&gotSource, source.ID).Error)
	assert.Equal(t, 0.0, gotSource.Balance)
}

func TestCreateTransferWalletNotFound(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)
	user := createTestUser(t, db, "ana@example.com")
	createTestWallet(t, db, user.ID, "Banco", 100)

	w := doJSON(t, r, http.MethodPost, "/transferencias", gin.H{
		"billetera_origen":  "Banco",
		"billetera_destino": "Inexistente",
		"monto":             10,
		"fecha":             "2025-03-01",
		"email":             user.Email,
	})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Billetera de destino no encontrada", decodeBody(t, w)["message"])
}

func TestCreateTransferOtherUsersWallet(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)
	ana := createTestUser(t, db, "ana@example.com")
	luis := createTestUser(t, db, "luis@example.com")
	createTestWallet(t, db, luis.ID, "Banco", 100)
	createTestWallet(t, db, ana.ID, "Efectivo", 0)

	// Wallet names resolve within the owner only
	w := doJSON(t, r, http.MethodPost, "/transferencias", gin.H{
		"billetera_origen":  "Banco",
		"billetera_destino": "Efectivo",
		"monto":             10,
		"fecha":             "2025-03-01",
		"email":             ana.Email,
	})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Billetera de origen no encontrada", decodeBody(t, w)["message"])
}

func TestDeleteTransferKeepsBalances(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)
	user := createTestUser(t, db, "ana@example.com")
	source := createTestWallet(t, db, user.ID, "Banco", 60)
	dest := createTestWallet(t, db, user.ID, "Efectivo", 40)
	transfer := domain.Transfer{UserID: user.ID, FromWalletID: source.ID, ToWalletID: dest.ID, Amount: 40, Date: "2025-03-01"}
	require.NoError(t, db.Create(&transfer).Error)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/transferencias/%d?email=%s", transfer.ID, user.Email), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Transferencia eliminada exitosamente", decodeBody(t, w)["message"])

	// The record is gone but balances stay where they were
	var count int64
	require.NoError(t, db.Model(&domain.Transfer{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	var gotSource, gotDest domain.Wallet
	require.NoError(t, db.First(&gotSource, source.ID).Error)
	require.NoError(t, db.First(&gotDest, dest.ID).Error)
	assert.Equal(t, 60.0, gotSource.Balance)
	assert.Equal(t, 40.0, gotDest.Balance)
}

func TestDeleteTransferNotFound(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)
	user := createTestUser(t, db, "ana@example.com")

	w := doJSON(t, r, http.MethodDelete, "/transferencias/999?email="+user.Email, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Transferencia no encontrada", decodeBody(t, w)["message"])
}
