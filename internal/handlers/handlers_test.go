package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"bloghub/internal/auth"
	"bloghub/internal/config"
	"bloghub/internal/middleware"
	"bloghub/internal/models"
	"bloghub/internal/services"
	"bloghub/internal/validation"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "handlers-test-secret"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		JWTSecret:     testSecret,
		TokenTTL:      time.Hour,
		BaseURL:       "http://localhost:8080",
		UploadDir:     t.TempDir(),
		MaxUploadSize: 1 << 20,
	}
}

func setupConn(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	conn, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)
	return conn, mock
}

// testEnv bundles everything a handler test touches: the gin engine to
// register routes on, the sqlmock arming the gorm connection, and the
// shared auth helpers.
type testEnv struct {
	router *gin.Engine
	conn   *gorm.DB
	mock   sqlmock.Sqlmock
	cfg    *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	conn, mock := setupConn(t)
	return &testEnv{
		router: gin.New(),
		conn:   conn,
		mock:   mock,
		cfg:    testConfig(t),
	}
}

func (e *testEnv) authHandler(t *testing.T) *AuthHandler {
	t.Helper()
	return NewAuthHandler(e.conn, e.cfg, services.NewMailService(e.cfg), validation.New())
}

func (e *testEnv) postHandler(t *testing.T) *PostHandler {
	t.Helper()
	images := &services.ImageService{Dir: e.cfg.UploadDir, MaxSize: e.cfg.MaxUploadSize}
	return NewPostHandler(e.conn, images, validation.New())
}

func (e *testEnv) commentHandler(t *testing.T) *CommentHandler {
	t.Helper()
	return NewCommentHandler(e.conn, validation.New())
}

func (e *testEnv) requireAuth() gin.HandlerFunc {
	return middleware.RequireAuth(e.cfg.JWTSecret)
}

func (e *testEnv) token(t *testing.T, userID uint, role string) string {
	t.Helper()
	raw, err := auth.IssueToken(&models.User{ID: userID, Email: "caller@example.com", Role: role}, e.cfg.JWTSecret, e.cfg.TokenTTL)
	require.NoError(t, err)
	return raw
}

// doJSON performs a request with an optional JSON body and bearer token.
func (e *testEnv) doJSON(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func userColumns() []string {
	return []string{"id", "first_name", "last_name", "phone_number", "email", "password", "role", "google_id"}
}

func userRow(mock sqlmock.Sqlmock, u models.User) *sqlmock.Rows {
	return mock.NewRows(userColumns()).
		AddRow(u.ID, u.FirstName, u.LastName, u.PhoneNumber, u.Email, u.Password, u.Role, u.GoogleID)
}

func postColumns() []string {
	return []string{"id", "title", "description", "author_id", "tags", "status", "image", "slug", "likes_count", "favorite_count"}
}

func postRow(mock sqlmock.Sqlmock, p models.Post) *sqlmock.Rows {
	return mock.NewRows(postColumns()).
		AddRow(p.ID, p.Title, p.Description, p.AuthorID, "{go,web}", p.Status, p.Image, p.Slug, p.LikesCount, p.FavoriteCount)
}

func commentColumns() []string {
	return []string{"id", "text", "author_id", "post_id", "likes_count"}
}

func commentRow(mock sqlmock.Sqlmock, cm models.Comment) *sqlmock.Rows {
	return mock.NewRows(commentColumns()).
		AddRow(cm.ID, cm.Text, cm.AuthorID, cm.PostID, cm.LikesCount)
}
