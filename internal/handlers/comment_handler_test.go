package handlers

import (
	"net/http"
	"strings"
	"testing"

	"bloghub/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerCommentRoutes(t *testing.T, env *testEnv) {
	h := env.commentHandler(t)
	blog := env.router.Group("/api/blog", env.requireAuth())
	blog.POST("/:id/comment", h.Create)
	blog.GET("/:id/comment", h.List)
	blog.PUT("/:id/comment/:commentId", h.Update)
	blog.DELETE("/:id/comment/:commentId", h.Delete)
	blog.POST("/:id/comment/:commentId/like", h.Like)
}

func TestCreateComment(t *testing.T) {
	env := newTestEnv(t)
	registerCommentRoutes(t, env)

	env.mock.ExpectQuery(`SELECT \* FROM "posts"`).
		WillReturnRows(postRow(env.mock, models.Post{
			ID: 7, Title: "Post", Description: "text", AuthorID: 5,
			Status: models.StatusPublished, Slug: "post-7",
		}))
	env.mock.ExpectBegin()
	env.mock.ExpectQuery(`INSERT INTO "comments"`).
		WillReturnRows(env.mock.NewRows([]string{"id", "likes_count"}).AddRow(3, 0))
	env.mock.ExpectCommit()

	w := env.doJSON(t, http.MethodPost, "/api/blog/7/comment", env.token(t, 9, models.RoleUser), map[string]string{
		"text": "  nice write-up  ",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	comment, _ := body["comment"].(map[string]interface{})
	require.NotNil(t, comment)
	// Stored trimmed, stamped with the caller and the post.
	assert.Equal(t, "nice write-up", comment["text"])
	assert.Equal(t, float64(9), comment["authorId"])
	assert.Equal(t, float64(7), comment["postId"])
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestCreateCommentMissingPost(t *testing.T) {
	env := newTestEnv(t)
	registerCommentRoutes(t, env)

	env.mock.ExpectQuery(`SELECT \* FROM "posts"`).
		WillReturnRows(env.mock.NewRows(postColumns()))

	w := env.doJSON(t, http.MethodPost, "/api/blog/7/comment", env.token(t, 9, models.RoleUser), map[string]string{
		"text": "orphan",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Blog not found")
}

// A comment of exactly 250 characters must be accepted even when it
// carries characters an HTML escaper would inflate.
func TestCreateCommentAtLengthCap(t *testing.T) {
	env := newTestEnv(t)
	registerCommentRoutes(t, env)

	text := "Tom's cat & dog " + strings.Repeat("a", 234)
	require.Len(t, text, 250)

	env.mock.ExpectQuery(`SELECT \* FROM "posts"`).
		WillReturnRows(postRow(env.mock, models.Post{
			ID: 7, Title: "Post", Description: "text", AuthorID: 5,
			Status: models.StatusPublished, Slug: "post-7",
		}))
	env.mock.ExpectBegin()
	env.mock.ExpectQuery(`INSERT INTO "comments"`).
		WillReturnRows(env.mock.NewRows([]string{"id", "likes_count"}).AddRow(3, 0))
	env.mock.ExpectCommit()

	w := env.doJSON(t, http.MethodPost, "/api/blog/7/comment", env.token(t, 9, models.RoleUser), map[string]string{
		"text": text,
	})

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	comment, _ := body["comment"].(map[string]interface{})
	require.NotNil(t, comment)
	// Stored as-is: the apostrophe and ampersand survive un-escaped and
	// the text still fits the 250-char column.
	stored, _ := comment["text"].(string)
	assert.Equal(t, text, stored)
	assert.Len(t, stored, 250)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestCreateCommentTooLong(t *testing.T) {
	env := newTestEnv(t)
	registerCommentRoutes(t, env)

	env.mock.ExpectQuery(`SELECT \* FROM "posts"`).
		WillReturnRows(postRow(env.mock, models.Post{
			ID: 7, Title: "Post", Description: "text", AuthorID: 5,
			Status: models.StatusPublished, Slug: "post-7",
		}))

	w := env.doJSON(t, http.MethodPost, "/api/blog/7/comment", env.token(t, 9, models.RoleUser), map[string]string{
		"text": strings.Repeat("a", 251),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestListComments(t *testing.T) {
	env := newTestEnv(t)
	registerCommentRoutes(t, env)

	env.mock.ExpectQuery(`SELECT \* FROM "comments"`).
		WithArgs(uint(7)).
		WillReturnRows(env.mock.NewRows(commentColumns()).
			AddRow(1, "first", 9, 7, 0).
			AddRow(2, "second", 5, 7, 2))

	w := env.doJSON(t, http.MethodGet, "/api/blog/7/comment", env.token(t, 9, models.RoleUser), nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data"`)
	assert.Contains(t, w.Body.String(), "first")
	assert.Contains(t, w.Body.String(), "second")
}

func TestListCommentsEmpty(t *testing.T) {
	env := newTestEnv(t)
	registerCommentRoutes(t, env)

	env.mock.ExpectQuery(`SELECT \* FROM "comments"`).
		WillReturnRows(env.mock.NewRows(commentColumns()))

	w := env.doJSON(t, http.MethodGet, "/api/blog/7/comment", env.token(t, 9, models.RoleUser), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No comments found for the blog")
}

func TestUpdateCommentForbidden(t *testing.T) {
	env := newTestEnv(t)
	registerCommentRoutes(t, env)

	env.mock.ExpectQuery(`SELECT \* FROM "comments"`).
		WillReturnRows(commentRow(env.mock, models.Comment{ID: 3, Text: "original", AuthorID: 5, PostID: 7}))

	w := env.doJSON(t, http.MethodPut, "/api/blog/7/comment/3", env.token(t, 99, models.RoleUser), map[string]string{
		"text": "rewritten",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Permission denied")
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestUpdateCommentWrongPost(t *testing.T) {
	env := newTestEnv(t)
	registerCommentRoutes(t, env)

	// Comment 3 belongs to post 8, addressed through post 7.
	env.mock.ExpectQuery(`SELECT \* FROM "comments"`).
		WillReturnRows(commentRow(env.mock, models.Comment{ID: 3, Text: "original", AuthorID: 5, PostID: 8}))

	w := env.doJSON(t, http.MethodPut, "/api/blog/7/comment/3", env.token(t, 5, models.RoleUser), map[string]string{
		"text": "rewritten",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid blogId for this comment")
}

func TestDeleteComment(t *testing.T) {
	env := newTestEnv(t)
	registerCommentRoutes(t, env)

	env.mock.ExpectQuery(`SELECT \* FROM "comments"`).
		WillReturnRows(commentRow(env.mock, models.Comment{ID: 3, Text: "bye", AuthorID: 5, PostID: 7}))
	env.mock.ExpectBegin()
	env.mock.ExpectExec(`DELETE FROM "comments"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	env.mock.ExpectCommit()

	w := env.doJSON(t, http.MethodDelete, "/api/blog/7/comment/3", env.token(t, 5, models.RoleUser), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Comment deleted successfully")
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestLikeComment(t *testing.T) {
	env := newTestEnv(t)
	registerCommentRoutes(t, env)

	env.mock.ExpectQuery(`SELECT \* FROM "comments"`).
		WillReturnRows(commentRow(env.mock, models.Comment{ID: 3, Text: "liked", AuthorID: 5, PostID: 7}))
	env.mock.ExpectBegin()
	env.mock.ExpectExec(`DELETE FROM "comment_likes"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	env.mock.ExpectQuery(`INSERT INTO "comment_likes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	env.mock.ExpectExec(`UPDATE "comments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	env.mock.ExpectQuery(`SELECT .*likes_count.* FROM "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"likes_count"}).AddRow(1))
	env.mock.ExpectCommit()

	w := env.doJSON(t, http.MethodPost, "/api/blog/7/comment/3/like", env.token(t, 9, models.RoleUser), nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["liked"])
	assert.Equal(t, float64(1), body["likesCount"])
	assert.NoError(t, env.mock.ExpectationsWereMet())
}
