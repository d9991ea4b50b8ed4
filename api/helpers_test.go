package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"familyledger/database"
	"familyledger/engine"
	"familyledger/middleware"
	"familyledger/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var testNow = time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

func testEngine(db *gorm.DB) *engine.Engine {
	return engine.New(db, engine.Options{
		Location: time.UTC,
		Now:      func() time.Time { return testNow },
	})
}

// setupMockDB points database.DB at a sqlmock-backed MySQL dialector.
func setupMockDB(t *testing.T) (sqlmock.Sqlmock, *gorm.DB, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	oldDB := database.DB
	database.DB = gormDB
	return mock, gormDB, func() {
		database.DB = oldDB
		sqlDB.Close()
	}
}

// setupTestDB points database.DB at a migrated in-memory SQLite database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedDefaultCategories(db))

	oldDB := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = oldDB
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func setUserIDMiddleware(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	}
}

func setFamilyMiddleware(familyID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextFamilyID, familyID)
		c.Next()
	}
}

// newRouter builds a gin engine acting as user 7 of familyID.
func newRouter(familyID uint) *gin.Engine {
	r := gin.New()
	r.Use(setUserIDMiddleware(7), setFamilyMiddleware(familyID))
	return r
}

func createFamily(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	f := models.Family{Name: name, Currency: "EUR"}
	require.NoError(t, db.Create(&f).Error)
	return f.ID
}

func createCategory(t *testing.T, db *gorm.DB, familyID uint, name string) uint {
	t.Helper()
	c := models.Category{FamilyID: &familyID, Name: name, Active: true}
	require.NoError(t, db.Create(&c).Error)
	return c.ID
}

func perform(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decode unmarshals the envelope and returns its data field re-encoded into out.
func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) Response {
	t.Helper()
	var raw struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	if out != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, out))
	}
	return Response{Code: raw.Code, Message: raw.Message}
}

func loadBudget(t *testing.T, db *gorm.DB, id uint) models.Budget {
	t.Helper()
	var b models.Budget
	require.NoError(t, db.First(&b, id).Error)
	return b
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimalOf(want).Equal(got), "want %s, got %s", want, got)
}

func decimalOf(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
