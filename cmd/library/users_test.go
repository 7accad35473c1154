package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GuillermoVar/Tarea2BDD2/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUserHashesPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB()
	db = testDB

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/users/",
		`{"username":"guillermo","fullname":"Guillermo V","password":"s3cret","email":"g@example.com"}`)

	createUser(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	err := testDB.Where("username = ?", "guillermo").First(&user).Error
	assert.NoError(t, err)
	assert.NotEqual(t, "s3cret", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret")))
	assert.True(t, user.IsActive)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	_, exposed := response["password"]
	assert.False(t, exposed)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB()
	db = testDB

	seedUser(testDB, "first", "same@example.com")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/users/",
		`{"username":"second","fullname":"Second","password":"pw","email":"same@example.com"}`)

	createUser(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateUserMissingEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB()
	db = testDB

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/users/",
		`{"username":"noemail","fullname":"No Email","password":"pw"}`)

	createUser(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateUserRehashesPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB()
	db = testDB

	hash, _ := bcrypt.GenerateFromPassword([]byte("old"), bcrypt.DefaultCost)
	user := models.User{
		Username: "carla", Fullname: "Carla", Password: string(hash),
		Email: "carla@example.com", IsActive: true,
	}
	testDB.Create(&user)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("PATCH", "/users/1", `{"password":"new","phone":"555-0199"}`)
	c.Params = gin.Params{gin.Param{Key: "id", Value: fmt.Sprint(user.ID)}}

	updateUser(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var updated models.User
	testDB.First(&updated, user.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("new")))
	assert.Equal(t, "555-0199", updated.Phone)
}

func TestUpdateUserPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB()
	db = testDB

	hash, _ := bcrypt.GenerateFromPassword([]byte("current"), bcrypt.DefaultCost)
	user := models.User{
		Username: "diego", Fullname: "Diego", Password: string(hash),
		Email: "diego@example.com", IsActive: true,
	}
	testDB.Create(&user)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("PUT", "/users/1/password",
		`{"currentPassword":"wrong","newPassword":"next"}`)
	c.Params = gin.Params{gin.Param{Key: "id", Value: fmt.Sprint(user.ID)}}

	updateUserPassword(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = jsonRequest("PUT", "/users/1/password",
		`{"currentPassword":"current","newPassword":"next"}`)
	c.Params = gin.Params{gin.Param{Key: "id", Value: fmt.Sprint(user.ID)}}

	updateUserPassword(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var updated models.User
	testDB.First(&updated, user.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("next")))
}

func TestUserNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB()
	db = testDB

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/users/999", nil)
	c.Params = gin.Params{gin.Param{Key: "id", Value: "999"}}

	getUser(c)

	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("DELETE", "/users/999", nil)
	c.Params = gin.Params{gin.Param{Key: "id", Value: "999"}}

	deleteUser(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListUsersOmitsPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB()
	db = testDB

	seedUser(testDB, "one", "one@example.com")
	seedUser(testDB, "two", "two@example.com")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/users/", nil)

	listUsers(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var items []map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &items)
	assert.Equal(t, 2, len(items))
	for _, item := range items {
		_, exposed := item["password"]
		assert.False(t, exposed)
	}
}
