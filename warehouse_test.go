package main

import (
	"testing"

	"homestock-backend/controllers"
	"homestock-backend/models"
	"homestock-backend/services"

	"github.com/stretchr/testify/assert"
)

func TestCreateWarehouse(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db, t.TempDir())
	user, token := createTestUser(db, "alice", "alice@test.com", false)

	req := jsonRequest("POST", "/warehouses", token, controllers.CreateWarehouseRequest{
		Name:        "Гараж",
		Description: "Инструменты и запчасти",
	})
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	// Создатель становится владельцем
	var warehouse models.Warehouse
	err = db.Where("name = ?", "Гараж").First(&warehouse).Error
	assert.NoError(t, err)
	assert.Equal(t, user.ID, warehouse.CreatorID)

	access := services.NewAccessService(db)
	role, err := access.RoleOf(user.ID, warehouse.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleOwner, role)

	// У других пользователей роли нет
	other, _ := createTestUser(db, "bob", "bob@test.com", false)
	role, err = access.RoleOf(other.ID, warehouse.ID)
	assert.NoError(t, err)
	assert.Empty(t, role)
}

func TestGetWarehousesReturnsOnlyMine(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db, t.TempDir())
	alice, aliceToken := createTestUser(db, "alice", "alice@test.com", false)
	bob, _ := createTestUser(db, "bob", "bob@test.com", false)

	createTestWarehouse(db, alice.ID, "Склад Алисы")
	createTestWarehouse(db, bob.ID, "Склад Боба")

	req := jsonRequest("GET", "/warehouses", aliceToken, nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(resp)
	data := body["data"].([]interface{})
	assert.Len(t, data, 1)

	entry := data[0].(map[string]interface{})
	assert.Equal(t, "Склад Алисы", entry["name"])
	assert.Equal(t, models.RoleOwner, entry["role"])
}

func TestGetWarehouseForbiddenForNonMember(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db, t.TempDir())
	alice, _ := createTestUser(db, "alice", "alice@test.com", false)
	_, bobToken := createTestUser(db, "bob", "bob@test.com", false)

	warehouse := createTestWarehouse(db, alice.ID, "Склад Алисы")

	req := jsonRequest("GET", "/warehouses/"+itoa(warehouse.ID), bobToken, nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestInviteUser(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db, t.TempDir())
	alice, aliceToken := createTestUser(db, "alice", "alice@test.com", false)
	bob, _ := createTestUser(db, "bob", "bob@test.com", false)

	warehouse := createTestWarehouse(db, alice.ID, "Склад Алисы")

	// Владелец приглашает по email
	req := jsonRequest("POST", "/warehouses/"+itoa(warehouse.ID)+"/invite", aliceToken,
		controllers.InviteRequest{Email: "bob@test.com"})
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	// Приглашенный становится участником
	access := services.NewAccessService(db)
	role, err := access.RoleOf(bob.ID, warehouse.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleMember, role)

	// Повторное приглашение — конфликт
	req = jsonRequest("POST", "/warehouses/"+itoa(warehouse.ID)+"/invite", aliceToken,
		controllers.InviteRequest{Email: "bob@test.com"})
	resp, err = app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)

	// Несуществующий email — не найдено
	req = jsonRequest("POST", "/warehouses/"+itoa(warehouse.ID)+"/invite", aliceToken,
		controllers.InviteRequest{Email: "nobody@test.com"})
	resp, err = app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestInviteRequiresOwner(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db, t.TempDir())
	alice, _ := createTestUser(db, "alice", "alice@test.com", false)
	bob, bobToken := createTestUser(db, "bob", "bob@test.com", false)
	createTestUser(db, "carol", "carol@test.com", false)

	warehouse := createTestWarehouse(db, alice.ID, "Склад Алисы")
	addTestMember(db, bob.ID, warehouse.ID, models.RoleMember)

	// Участник приглашать не может
	req := jsonRequest("POST", "/warehouses/"+itoa(warehouse.ID)+"/invite", bobToken,
		controllers.InviteRequest{Email: "carol@test.com"})
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestGetMembers(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db, t.TempDir())
	alice, aliceToken := createTestUser(db, "alice", "alice@test.com", false)
	bob, _ := createTestUser(db, "bob", "bob@test.com", false)

	warehouse := createTestWarehouse(db, alice.ID, "Склад Алисы")
	addTestMember(db, bob.ID, warehouse.ID, models.RoleMember)

	req := jsonRequest("GET", "/warehouses/"+itoa(warehouse.ID)+"/members", aliceToken, nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(resp)
	data := body["data"].([]interface{})
	assert.Len(t, data, 2)
}

func TestMembershipUniqueConstraint(t *testing.T) {
	db := setupTestDB()
	alice, _ := createTestUser(db, "alice", "alice@test.com", false)
	warehouse := createTestWarehouse(db, alice.ID, "Склад Алисы")

	// Вторая запись членства для той же пары отклоняется хранилищем
	err := db.Create(&models.UserWarehouse{
		UserID:      alice.ID,
		WarehouseID: warehouse.ID,
		Role:        models.RoleMember,
	}).Error
	assert.Error(t, err)
}
