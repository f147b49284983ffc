package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bloghub/internal/middleware"
	"bloghub/internal/models"
	"bloghub/internal/policy"
	"bloghub/internal/reaction"
	"bloghub/internal/utils"
	"bloghub/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type CommentHandler struct {
	conn     *gorm.DB
	validate *validator.Validate
}

func NewCommentHandler(conn *gorm.DB, validate *validator.Validate) *CommentHandler {
	return &CommentHandler{conn: conn, validate: validate}
}

type commentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=250"`
}

// bindComment reads and validates the comment body. Markup is stripped
// and whitespace trimmed first, so the 1-250 rule applies to exactly the
// text that gets stored.
func (h *CommentHandler) bindComment(c *gin.Context) (string, bool) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return "", false
	}
	req.Text = strings.TrimSpace(utils.SanitizeText(req.Text))
	if err := h.validate.Struct(req); err != nil {
		badRequest(c, validation.FirstError(err))
		return "", false
	}
	return req.Text, true
}

// Create adds a comment to an existing post, stamping the author from the
// verified token.
func (h *CommentHandler) Create(c *gin.Context) {
	claims := middleware.CurrentUser(c)

	postID, ok := h.parseBlogID(c)
	if !ok {
		return
	}

	var post models.Post
	if err := h.conn.WithContext(c.Request.Context()).First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Blog not found")
			return
		}
		serverError(c, err)
		return
	}

	text, ok := h.bindComment(c)
	if !ok {
		return
	}

	comment := models.Comment{
		Text:     text,
		AuthorID: claims.UserID,
		PostID:   post.ID,
	}
	if err := h.conn.WithContext(c.Request.Context()).Create(&comment).Error; err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Comment created successfully", "comment": comment})
}

// List returns all comments of a post.
func (h *CommentHandler) List(c *gin.Context) {
	postID, ok := h.parseBlogID(c)
	if !ok {
		return
	}

	var comments []models.Comment
	err := h.conn.WithContext(c.Request.Context()).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		serverError(c, err)
		return
	}

	if len(comments) == 0 {
		notFound(c, "No comments found for the blog")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": comments})
}

// Update rewrites an owned comment's text.
func (h *CommentHandler) Update(c *gin.Context) {
	claims := middleware.CurrentUser(c)

	comment, ok := h.findComment(c)
	if !ok {
		return
	}

	text, ok := h.bindComment(c)
	if !ok {
		return
	}

	if !policy.CanMutate(claims, comment.AuthorID) {
		forbidden(c)
		return
	}

	if err := h.conn.WithContext(c.Request.Context()).Model(comment).Update("text", text).Error; err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment updated successfully"})
}

// Delete hard-deletes an owned comment.
func (h *CommentHandler) Delete(c *gin.Context) {
	claims := middleware.CurrentUser(c)

	comment, ok := h.findComment(c)
	if !ok {
		return
	}

	if !policy.CanMutate(claims, comment.AuthorID) {
		forbidden(c)
		return
	}

	if err := h.conn.WithContext(c.Request.Context()).Delete(comment).Error; err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

// Like toggles the caller's like on a comment and returns the new count.
func (h *CommentHandler) Like(c *gin.Context) {
	claims := middleware.CurrentUser(c)

	comment, ok := h.findComment(c)
	if !ok {
		return
	}

	liked, count, err := reaction.Toggle(c.Request.Context(), h.conn, claims.UserID, reaction.CommentLike(comment.ID))
	if err != nil {
		serverError(c, err)
		return
	}

	message := "Comment unliked successfully"
	if liked {
		message = "Comment liked successfully"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "liked": liked, "likesCount": count})
}

func (h *CommentHandler) parseBlogID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid blogId. Please provide a valid blog identifier.")
		return 0, false
	}
	return uint(id), true
}

// findComment loads the addressed comment and enforces the cross-reference
// rule: the comment must belong to the post named in the URL.
func (h *CommentHandler) findComment(c *gin.Context) (*models.Comment, bool) {
	postID, ok := h.parseBlogID(c)
	if !ok {
		return nil, false
	}

	commentID, err := strconv.ParseUint(c.Param("commentId"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid commentId. Please provide a valid comment identifier.")
		return nil, false
	}

	var comment models.Comment
	if err := h.conn.WithContext(c.Request.Context()).First(&comment, uint(commentID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Comment not found")
			return nil, false
		}
		serverError(c, err)
		return nil, false
	}

	if comment.PostID != postID {
		badRequest(c, "Invalid blogId for this comment")
		return nil, false
	}
	return &comment, true
}
