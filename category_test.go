package main

import (
	"testing"
	"time"

	"homestock-backend/controllers"
	"homestock-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestCreateCategoryDuplicateName(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db, t.TempDir())
	alice, token := createTestUser(db, "alice", "alice@test.com", false)
	warehouse := createTestWarehouse(db, alice.ID, "Склад Алисы")

	// Первая категория создается
	req := jsonRequest("POST", "/categories", token, controllers.CreateCategoryRequest{
		Name:        "Инструменты",
		WarehouseID: warehouse.ID,
	})
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	// Дубликат в том же складе — конфликт
	req = jsonRequest("POST", "/categories", token, controllers.CreateCategoryRequest{
		Name:        "Инструменты",
		WarehouseID: warehouse.ID,
	})
	resp, err = app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)

	// То же имя в другом складе — допустимо
	other := createTestWarehouse(db, alice.ID, "Другой склад")
	req = jsonRequest("POST", "/categories", token, controllers.CreateCategoryRequest{
		Name:        "Инструменты",
		WarehouseID: other.ID,
	})
	resp, err = app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
}

func TestCreateCategoryTrimsName(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db, t.TempDir())
	alice, token := createTestUser(db, "alice", "alice@test.com", false)
	warehouse := createTestWarehouse(db, alice.ID, "Склад Алисы")

	req := jsonRequest("POST", "/categories", token, controllers.CreateCategoryRequest{
		Name:        "Инструменты",
		WarehouseID: warehouse.ID,
	})
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	// Имя с пробелами по краям — та же категория, конфликт
	req = jsonRequest("POST", "/categories", token, controllers.CreateCategoryRequest{
		Name:        "  Инструменты  ",
		WarehouseID: warehouse.ID,
	})
	resp, _ = app.Test(req)
	assert.Equal(t, 409, resp.StatusCode)

	// Сохраненное имя без пробелов
	var category models.Category
	err = db.Where("warehouse_id = ?", warehouse.ID).First(&category).Error
	assert.NoError(t, err)
	assert.Equal(t, "Инструменты", category.Name)
}

func TestCreateCategoryRequiresMembership(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db, t.TempDir())
	alice, _ := createTestUser(db, "alice", "alice@test.com", false)
	_, bobToken := createTestUser(db, "bob", "bob@test.com", false)
	warehouse := createTestWarehouse(db, alice.ID, "Склад Алисы")

	req := jsonRequest("POST", "/categories", bobToken, controllers.CreateCategoryRequest{
		Name:        "Инструменты",
		WarehouseID: warehouse.ID,
	})
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestDeleteCategoryInUse(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db, t.TempDir())
	alice, token := createTestUser(db, "alice", "alice@test.com", false)
	warehouse := createTestWarehouse(db, alice.ID, "Склад Алисы")

	category := models.Category{Name: "Инструменты", WarehouseID: warehouse.ID}
	db.Create(&category)
	item := models.Item{Name: "Молоток", WarehouseID: warehouse.ID, CategoryID: &category.ID}
	db.Create(&item)

	// Категория с активным предметом не удаляется
	req := jsonRequest("DELETE", "/categories/"+itoa(category.ID), token, nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)

	// После мягкого удаления предмета категория удаляется
	now := time.Now()
	item.DeletedAt = &now
	db.Save(&item)

	req = jsonRequest("DELETE", "/categories/"+itoa(category.ID), token, nil)
	resp, err = app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var count int64
	db.Model(&models.Category{}).Where("id = ?", category.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestDeleteCategoryRequiresOwner(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db, t.TempDir())
	alice, _ := createTestUser(db, "alice", "alice@test.com", false)
	bob, bobToken := createTestUser(db, "bob", "bob@test.com", false)
	warehouse := createTestWarehouse(db, alice.ID, "Склад Алисы")
	addTestMember(db, bob.ID, warehouse.ID, models.RoleMember)

	category := models.Category{Name: "Инструменты", WarehouseID: warehouse.ID}
	db.Create(&category)

	// Участник удалять категории не может
	req := jsonRequest("DELETE", "/categories/"+itoa(category.ID), bobToken, nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestGetCategories(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db, t.TempDir())
	alice, token := createTestUser(db, "alice", "alice@test.com", false)
	warehouse := createTestWarehouse(db, alice.ID, "Склад Алисы")

	db.Create(&models.Category{Name: "Инструменты", WarehouseID: warehouse.ID})
	db.Create(&models.Category{Name: "Электроника", WarehouseID: warehouse.ID})

	req := jsonRequest("GET", "/categories/warehouse/"+itoa(warehouse.ID), token, nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(resp)
	data := body["data"].([]interface{})
	assert.Len(t, data, 2)
}
