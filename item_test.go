package main

import (
	"net/url"
	"testing"

	"homestock-backend/controllers"
	"homestock-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestCreateItemCategoryMustShareWarehouse(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db, t.TempDir())
	alice, token := createTestUser(db, "alice", "alice@test.com", false)
	warehouse := createTestWarehouse(db, alice.ID, "Склад Алисы")
	other := createTestWarehouse(db, alice.ID, "Другой склад")

	foreign := models.Category{Name: "Чужая", WarehouseID: other.ID}
	db.Create(&foreign)

	// Категория из другого склада отклоняется
	req := jsonRequest("POST", "/items", token, controllers.CreateItemRequest{
		Name:        "Молоток",
		WarehouseID: warehouse.ID,
		CategoryID:  &foreign.ID,
	})
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	// Категория того же склада принимается
	local := models.Category{Name: "Своя", WarehouseID: warehouse.ID}
	db.Create(&local)

	req = jsonRequest("POST", "/items", token, controllers.CreateItemRequest{
		Name:        "Молоток",
		WarehouseID: warehouse.ID,
		CategoryID:  &local.ID,
	})
	resp, err = app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
}

func TestCreateItemDefaultQuantity(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db, t.TempDir())
	alice, token := createTestUser(db, "alice", "alice@test.com", false)
	warehouse := createTestWarehouse(db, alice.ID, "Склад Алисы")

	req := jsonRequest("POST", "/items", token, controllers.CreateItemRequest{
		Name:        "Молоток",
		WarehouseID: warehouse.ID,
	})
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	var item models.Item
	db.Where("name = ?", "Молоток").First(&item)
	assert.Equal(t, 1, item.Quantity)
}

func TestCreateItemNegativeQuantity(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db, t.TempDir())
	alice, token := createTestUser(db, "alice", "alice@test.com", false)
	warehouse := createTestWarehouse(db, alice.ID, "Склад Алисы")

	// Отрицательное количество отклоняется, как и при обновлении
	req := jsonRequest("POST", "/items", token, controllers.CreateItemRequest{
		Name:        "Молоток",
		Quantity:    -5,
		WarehouseID: warehouse.ID,
	})
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	var count int64
	db.Model(&models.Item{}).Where("warehouse_id = ?", warehouse.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSoftDeleteAndListings(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db, t.TempDir())
	alice, token := createTestUser(db, "alice", "alice@test.com", false)
	warehouse := createTestWarehouse(db, alice.ID, "Склад Алисы")

	hammer := models.Item{Name: "Молоток", WarehouseID: warehouse.ID}
	drill := models.Item{Name: "Дрель", WarehouseID: warehouse.ID}
	db.Create(&hammer)
	db.Create(&drill)

	// Мягко удаляем молоток
	req := jsonRequest("DELETE", "/items/"+itoa(hammer.ID), token, nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	// Активный список его не содержит
	req = jsonRequest("GET", "/items/warehouse/"+itoa(warehouse.ID), token, nil)
	resp, _ = app.Test(req)
	body := decodeBody(resp)
	data := body["data"].([]interface{})
	assert.Len(t, data, 1)
	assert.Equal(t, "Дрель", data[0].(map[string]interface{})["name"])

	// Список удаленных содержит только его
	req = jsonRequest("GET", "/items/warehouse/"+itoa(warehouse.ID)+"/deleted", token, nil)
	resp, _ = app.Test(req)
	body = decodeBody(resp)
	data = body["data"].([]interface{})
	assert.Len(t, data, 1)
	assert.Equal(t, "Молоток", data[0].(map[string]interface{})["name"])

	// Без флага удаленный предмет не отдается
	req = jsonRequest("GET", "/items/"+itoa(hammer.ID), token, nil)
	resp, _ = app.Test(req)
	assert.Equal(t, 404, resp.StatusCode)

	// С флагом — отдается
	req = jsonRequest("GET", "/items/"+itoa(hammer.ID)+"?include_deleted=true", token, nil)
	resp, _ = app.Test(req)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRestoreItem(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db, t.TempDir())
	alice, token := createTestUser(db, "alice", "alice@test.com", false)
	warehouse := createTestWarehouse(db, alice.ID, "Склад Алисы")

	item := models.Item{Name: "Молоток", WarehouseID: warehouse.ID}
	db.Create(&item)

	// Удаляем и восстанавливаем
	req := jsonRequest("DELETE", "/items/"+itoa(item.ID), token, nil)
	resp, _ := app.Test(req)
	assert.Equal(t, 200, resp.StatusCode)

	req = jsonRequest("POST", "/items/restore/"+itoa(item.ID), token, nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var restored models.Item
	db.First(&restored, item.ID)
	assert.Nil(t, restored.DeletedAt)

	// Повторное восстановление активного предмета не ошибка
	req = jsonRequest("POST", "/items/restore/"+itoa(item.ID), token, nil)
	resp, err = app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	// Восстановление несуществующего предмета — 404
	req = jsonRequest("POST", "/items/restore/99999", token, nil)
	resp, err = app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestMemberPermissions(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db, t.TempDir())
	alice, _ := createTestUser(db, "alice", "alice@test.com", false)
	bob, bobToken := createTestUser(db, "bob", "bob@test.com", false)
	warehouse := createTestWarehouse(db, alice.ID, "Склад Алисы")
	addTestMember(db, bob.ID, warehouse.ID, models.RoleMember)

	// Участник создает предметы
	req := jsonRequest("POST", "/items", bobToken, controllers.CreateItemRequest{
		Name:        "Молоток",
		WarehouseID: warehouse.ID,
	})
	resp, _ := app.Test(req)
	assert.Equal(t, 201, resp.StatusCode)

	var item models.Item
	db.Where("name = ?", "Молоток").First(&item)

	// Участник обновляет предметы
	newName := "Кувалда"
	req = jsonRequest("PUT", "/items/"+itoa(item.ID), bobToken, controllers.UpdateItemRequest{
		Name: &newName,
	})
	resp, _ = app.Test(req)
	assert.Equal(t, 200, resp.StatusCode)

	// Но не удаляет
	req = jsonRequest("DELETE", "/items/"+itoa(item.ID), bobToken, nil)
	resp, _ = app.Test(req)
	assert.Equal(t, 403, resp.StatusCode)

	// И не восстанавливает
	req = jsonRequest("POST", "/items/restore/"+itoa(item.ID), bobToken, nil)
	resp, _ = app.Test(req)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestUpdateItemClearCategory(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db, t.TempDir())
	alice, token := createTestUser(db, "alice", "alice@test.com", false)
	warehouse := createTestWarehouse(db, alice.ID, "Склад Алисы")

	category := models.Category{Name: "Инструменты", WarehouseID: warehouse.ID}
	db.Create(&category)
	item := models.Item{Name: "Молоток", WarehouseID: warehouse.ID, CategoryID: &category.ID}
	db.Create(&item)

	// Нулевая категория снимает привязку
	zero := uint(0)
	req := jsonRequest("PUT", "/items/"+itoa(item.ID), token, controllers.UpdateItemRequest{
		CategoryID: &zero,
	})
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var updated models.Item
	db.First(&updated, item.ID)
	assert.Nil(t, updated.CategoryID)
}

func TestSearchItems(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db, t.TempDir())
	alice, aliceToken := createTestUser(db, "alice", "alice@test.com", false)
	bob, _ := createTestUser(db, "bob", "bob@test.com", false)

	mine := createTestWarehouse(db, alice.ID, "Склад Алисы")
	shared := createTestWarehouse(db, bob.ID, "Склад Боба")
	addTestMember(db, alice.ID, shared.ID, models.RoleMember)
	foreign := createTestWarehouse(db, bob.ID, "Чужой склад")

	tools := models.Category{Name: "Tools", WarehouseID: mine.ID}
	db.Create(&tools)

	db.Create(&models.Item{Name: "Hammer", WarehouseID: mine.ID, CategoryID: &tools.ID})
	db.Create(&models.Item{Name: "Drill", Location: "tool shelf", WarehouseID: shared.ID})
	db.Create(&models.Item{Name: "Toolbox", WarehouseID: foreign.ID})

	// Поиск по имени категории без учета регистра, только доступные склады
	req := jsonRequest("GET", "/items/search?query=TOOL", aliceToken, nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(resp)
	data := body["data"].([]interface{})
	assert.Len(t, data, 2)

	names := []string{
		data[0].(map[string]interface{})["name"].(string),
		data[1].(map[string]interface{})["name"].(string),
	}
	assert.Contains(t, names, "Hammer")
	assert.Contains(t, names, "Drill")
	assert.NotContains(t, names, "Toolbox")
}

func TestSearchItemsCyrillicCaseFold(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db, t.TempDir())
	alice, token := createTestUser(db, "alice", "alice@test.com", false)
	warehouse := createTestWarehouse(db, alice.ID, "Склад Алисы")

	category := models.Category{Name: "Инструменты", WarehouseID: warehouse.ID}
	db.Create(&category)
	db.Create(&models.Item{Name: "Молоток", WarehouseID: warehouse.ID, CategoryID: &category.ID})
	db.Create(&models.Item{Name: "Отвертка", Location: "верхняя полка", WarehouseID: warehouse.ID})

	// Регистр кириллицы сворачивается одинаково на sqlite и postgres
	req := jsonRequest("GET", "/items/search?query="+url.QueryEscape("МОЛОТОК"), token, nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(resp)
	data := body["data"].([]interface{})
	assert.Len(t, data, 1)
	assert.Equal(t, "Молоток", data[0].(map[string]interface{})["name"].(string))

	// Совпадение по имени категории
	req = jsonRequest("GET", "/items/search?query="+url.QueryEscape("инструмент"), token, nil)
	resp, _ = app.Test(req)
	body = decodeBody(resp)
	assert.Len(t, body["data"].([]interface{}), 1)

	// Совпадение по местоположению
	req = jsonRequest("GET", "/items/search?query="+url.QueryEscape("ПОЛКА"), token, nil)
	resp, _ = app.Test(req)
	body = decodeBody(resp)
	assert.Len(t, body["data"].([]interface{}), 1)
}

func TestSearchExcludesDeletedItems(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db, t.TempDir())
	alice, token := createTestUser(db, "alice", "alice@test.com", false)
	warehouse := createTestWarehouse(db, alice.ID, "Склад Алисы")

	item := models.Item{Name: "Hammer", WarehouseID: warehouse.ID}
	db.Create(&item)

	req := jsonRequest("DELETE", "/items/"+itoa(item.ID), token, nil)
	resp, _ := app.Test(req)
	assert.Equal(t, 200, resp.StatusCode)

	req = jsonRequest("GET", "/items/search?query=hammer", token, nil)
	resp, _ = app.Test(req)
	body := decodeBody(resp)
	data := body["data"].([]interface{})
	assert.Len(t, data, 0)
}
