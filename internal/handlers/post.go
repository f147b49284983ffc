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
	"bloghub/internal/services"
	"bloghub/internal/utils"
	"bloghub/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type PostHandler struct {
	conn         *gorm.DB
	imageService *services.ImageService
	validate     *validator.Validate
}

func NewPostHandler(conn *gorm.DB, images *services.ImageService, validate *validator.Validate) *PostHandler {
	return &PostHandler{conn: conn, imageService: images, validate: validate}
}

// normalizeTags lower-cases and de-dupes tags; empty entries are dropped.
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// formTags reads tags from a multipart form. Repeated fields and
// comma-separated values both work, in any combination.
func formTags(c *gin.Context) []string {
	var values []string
	for _, v := range c.PostFormArray("tags") {
		values = append(values, strings.Split(v, ",")...)
	}
	return normalizeTags(values)
}

// List serves the public feed: published posts only, filterable by tag
// set, case-insensitive title substring, or exact slug.
func (h *PostHandler) List(c *gin.Context) {
	q := h.conn.WithContext(c.Request.Context()).
		Where("status = ?", models.StatusPublished)

	tagsParam := c.Query("tags")
	if tagsParam != "" {
		tags := normalizeTags(strings.Split(tagsParam, ","))
		q = q.Where("tags && ?", pq.Array(tags))
	}
	if title := c.Query("title"); title != "" {
		q = q.Where("title ILIKE ?", "%"+title+"%")
	}
	if slug := c.Query("slug"); slug != "" {
		q = q.Where("slug = ?", slug)
	}

	var posts []models.Post
	if err := q.Order("created_at DESC").Find(&posts).Error; err != nil {
		serverError(c, err)
		return
	}

	if tagsParam != "" && len(posts) == 0 {
		notFound(c, "No blog posts found with the provided tags")
		return
	}

	c.JSON(http.StatusOK, gin.H{"blogPosts": posts})
}

// Get fetches one published post by numeric id or slug. The detail
// response carries the description rendered to sanitized HTML, and for a
// caller with a valid token, whether they liked or favorited the post.
func (h *PostHandler) Get(c *gin.Context) {
	key := c.Param("id")

	q := h.conn.WithContext(c.Request.Context()).
		Where("status = ?", models.StatusPublished)
	if id, err := strconv.ParseUint(key, 10, 64); err == nil {
		q = q.Where("id = ?", uint(id))
	} else {
		q = q.Where("slug = ?", key)
	}

	var post models.Post
	if err := q.First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Blog post not found")
			return
		}
		serverError(c, err)
		return
	}

	payload := gin.H{
		"blog":            post,
		"descriptionHtml": utils.RenderMarkdown(post.Description),
	}

	if claims := middleware.CurrentUser(c); claims != nil {
		liked, err := reaction.IsActive(c.Request.Context(), h.conn, claims.UserID, reaction.PostLike(post.ID))
		if err != nil {
			serverError(c, err)
			return
		}
		favorited, err := reaction.IsActive(c.Request.Context(), h.conn, claims.UserID, reaction.PostFavorite(post.ID))
		if err != nil {
			serverError(c, err)
			return
		}
		payload["liked"] = liked
		payload["favorited"] = favorited
	}

	c.JSON(http.StatusOK, payload)
}

type createPostForm struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Status      string `json:"status" validate:"omitempty,oneof=published draft"`
}

// Create accepts a multipart form with title, description, optional tags,
// optional status and an optional image. The author comes from the
// verified token, never from the body; the slug is derived from the title
// and the generated id before the row is written.
func (h *PostHandler) Create(c *gin.Context) {
	claims := middleware.CurrentUser(c)

	form := createPostForm{
		Title:       strings.TrimSpace(c.PostForm("title")),
		Description: c.PostForm("description"),
		Status:      c.PostForm("status"),
	}
	if err := h.validate.Struct(form); err != nil {
		badRequest(c, validation.FirstError(err))
		return
	}
	if form.Status == "" {
		form.Status = models.StatusPublished
	}

	imagePath := ""
	file, header, err := c.Request.FormFile("image")
	if err == nil {
		defer file.Close()
		imagePath, err = h.imageService.Save(file, header)
		if err != nil {
			if errors.Is(err, services.ErrImageTooLarge) || errors.Is(err, services.ErrImageType) {
				badRequest(c, err.Error())
				return
			}
			serverError(c, err)
			return
		}
	} else if !errors.Is(err, http.ErrMissingFile) {
		badRequest(c, "Error uploading image")
		return
	}

	post := models.Post{
		Title:       utils.SanitizeText(form.Title),
		Description: form.Description,
		AuthorID:    claims.UserID,
		Tags:        formTags(c),
		Status:      form.Status,
		Image:       imagePath,
	}

	// The id is drawn from the sequence up front so the slug can be
	// written complete and unique in the same insert.
	err = h.conn.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var id int64
		if err := tx.Raw("SELECT nextval(pg_get_serial_sequence('posts','id'))").Scan(&id).Error; err != nil {
			return err
		}
		post.ID = uint(id)
		post.Slug = utils.Slugify(post.Title, post.ID)
		return tx.Create(&post).Error
	})
	if err != nil {
		h.imageService.Remove(imagePath)
		serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Blog post created successfully", "blog": post})
}

type updatePostRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1"`
	Description *string  `json:"description" validate:"omitempty,min=1"`
	Tags        []string `json:"tags"`
	Status      *string  `json:"status" validate:"omitempty,oneof=published draft"`
}

// Update applies the provided fields to an owned post. The slug never
// changes after creation, even when the title does.
func (h *PostHandler) Update(c *gin.Context) {
	claims := middleware.CurrentUser(c)

	post, ok := h.findPost(c)
	if !ok {
		return
	}

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		badRequest(c, validation.FirstError(err))
		return
	}

	if !policy.CanMutate(claims, post.AuthorID) {
		forbidden(c)
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = utils.SanitizeText(strings.TrimSpace(*req.Title))
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Tags != nil {
		updates["tags"] = pq.StringArray(normalizeTags(req.Tags))
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		badRequest(c, "At least one field is required for the update")
		return
	}

	if err := h.conn.WithContext(c.Request.Context()).Model(post).Updates(updates).Error; err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Blog post updated successfully", "blog": post})
}

// Delete hard-deletes an owned post. Comments and reactions go with it
// through the FK cascades; the stored image is removed best effort.
func (h *PostHandler) Delete(c *gin.Context) {
	claims := middleware.CurrentUser(c)

	post, ok := h.findPost(c)
	if !ok {
		return
	}

	if !policy.CanMutate(claims, post.AuthorID) {
		forbidden(c)
		return
	}

	if err := h.conn.WithContext(c.Request.Context()).Delete(post).Error; err != nil {
		serverError(c, err)
		return
	}

	h.imageService.Remove(post.Image)

	c.JSON(http.StatusOK, gin.H{"message": "Blog post deleted successfully"})
}

// Like toggles the caller's like on a post and returns the new count.
func (h *PostHandler) Like(c *gin.Context) {
	claims := middleware.CurrentUser(c)

	post, ok := h.findPost(c)
	if !ok {
		return
	}

	liked, count, err := reaction.Toggle(c.Request.Context(), h.conn, claims.UserID, reaction.PostLike(post.ID))
	if err != nil {
		serverError(c, err)
		return
	}

	message := "Blog post unliked successfully"
	if liked {
		message = "Blog post liked successfully"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "liked": liked, "likesCount": count})
}

// Favorite toggles the caller's favorite on a post and returns the new count.
func (h *PostHandler) Favorite(c *gin.Context) {
	claims := middleware.CurrentUser(c)

	post, ok := h.findPost(c)
	if !ok {
		return
	}

	favorited, count, err := reaction.Toggle(c.Request.Context(), h.conn, claims.UserID, reaction.PostFavorite(post.ID))
	if err != nil {
		serverError(c, err)
		return
	}

	message := "Blog post unfavorited successfully"
	if favorited {
		message = "Blog post favorited successfully"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "favorited": favorited, "favoriteCount": count})
}

// findPost loads the post addressed by the :id param, writing the error
// response itself when the id is malformed or the post is missing.
func (h *PostHandler) findPost(c *gin.Context) (*models.Post, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid blogId. Please provide a valid blog identifier.")
		return nil, false
	}

	var post models.Post
	if err := h.conn.WithContext(c.Request.Context()).First(&post, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Blog post not found")
			return nil, false
		}
		serverError(c, err)
		return nil, false
	}
	return &post, true
}
