package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bloghub/internal/middleware"
	"bloghub/internal/models"
	"bloghub/internal/policy"
	"bloghub/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type UserHandler struct {
	conn     *gorm.DB
	validate *validator.Validate
}

func NewUserHandler(conn *gorm.DB, validate *validator.Validate) *UserHandler {
	return &UserHandler{conn: conn, validate: validate}
}

// Profile returns the caller's own profile. The password hash never
// serializes (json:"-" on the model).
func (h *UserHandler) Profile(c *gin.Context) {
	claims := middleware.CurrentUser(c)

	var user models.User
	if err := h.conn.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "User not found")
			return
		}
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}

type updateProfileRequest struct {
	FirstName   *string `json:"firstName" validate:"omitempty,min=1"`
	LastName    *string `json:"lastName" validate:"omitempty,min=1"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,phone"`
	Email       *string `json:"email" validate:"omitempty,email"`
}

// Update applies a partial profile update to the addressed user. Only the
// owner or an admin may do so.
func (h *UserHandler) Update(c *gin.Context) {
	claims := middleware.CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid userId. Please provide a valid user identifier.")
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		badRequest(c, validation.FirstError(err))
		return
	}
	if req.FirstName == nil && req.LastName == nil && req.PhoneNumber == nil && req.Email == nil {
		badRequest(c, "At least one field is required for the profile update")
		return
	}

	var user models.User
	if err := h.conn.WithContext(c.Request.Context()).First(&user, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "User not found")
			return
		}
		serverError(c, err)
		return
	}

	if !policy.CanMutate(claims, user.ID) {
		forbidden(c)
		return
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.PhoneNumber != nil {
		updates["phone_number"] = *req.PhoneNumber
	}
	if req.Email != nil {
		email := strings.ToLower(*req.Email)

		var existing models.User
		err := h.conn.WithContext(c.Request.Context()).
			Where("email = ? AND id != ?", email, user.ID).
			First(&existing).Error
		if err == nil {
			badRequest(c, "User already exists")
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			serverError(c, err)
			return
		}
		updates["email"] = email
	}

	if err := h.conn.WithContext(c.Request.Context()).Model(&user).Updates(updates).Error; err != nil {
		// Same race as signup: the email uniqueness probe is advisory,
		// the unique index is authoritative.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			badRequest(c, "User already exists")
			return
		}
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User profile updated successfully",
		"data": gin.H{
			"id":          user.ID,
			"firstName":   user.FirstName,
			"lastName":    user.LastName,
			"phoneNumber": user.PhoneNumber,
			"email":       user.Email,
		},
	})
}

// Favorites lists the published posts the caller has favorited.
func (h *UserHandler) Favorites(c *gin.Context) {
	claims := middleware.CurrentUser(c)

	var posts []models.Post
	err := h.conn.WithContext(c.Request.Context()).
		Joins("JOIN post_favorites ON post_favorites.post_id = posts.id").
		Where("post_favorites.user_id = ? AND posts.status = ?", claims.UserID, models.StatusPublished).
		Order("post_favorites.created_at DESC").
		Find(&posts).Error
	if err != nil {
		serverError(c, err)
		return
	}

	if len(posts) == 0 {
		notFound(c, "No favorite blog posts found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": posts})
}

// All lists every non-admin user. Admin only; the route is additionally
// gated by RequireAdmin.
func (h *UserHandler) All(c *gin.Context) {
	var users []models.User
	err := h.conn.WithContext(c.Request.Context()).
		Where("role != ?", models.RoleAdmin).
		Order("created_at ASC").
		Find(&users).Error
	if err != nil {
		serverError(c, err)
		return
	}

	if len(users) == 0 {
		notFound(c, "No users found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": users})
}
