package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"bloghub/internal/auth"
	"bloghub/internal/config"
	"bloghub/internal/models"
	"bloghub/internal/services"
	"bloghub/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

type AuthHandler struct {
	conn        *gorm.DB
	cfg         *config.Config
	mailService *services.MailService
	validate    *validator.Validate
	oauthConfig *oauth2.Config
}

func NewAuthHandler(conn *gorm.DB, cfg *config.Config, mail *services.MailService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{
		conn:        conn,
		cfg:         cfg,
		mailService: mail,
		validate:    validate,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.BaseURL + "/auth/google/callback",
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

type SignupRequest struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,phone"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,password"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		badRequest(c, validation.FirstError(err))
		return
	}

	email := strings.ToLower(req.Email)

	var existing models.User
	err := h.conn.WithContext(c.Request.Context()).Where("email = ?", email).First(&existing).Error
	if err == nil {
		badRequest(c, "User already exists")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		serverError(c, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		serverError(c, err)
		return
	}

	user := models.User{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Email:       email,
		Password:    hash,
		Role:        models.RoleUser,
	}
	if err := h.conn.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		// A concurrent signup can slip past the probe above; the unique
		// index on email still decides.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			badRequest(c, "User already exists")
			return
		}
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User registered successfully"})
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		badRequest(c, validation.FirstError(err))
		return
	}

	// Unknown email and wrong password produce the same response, so the
	// endpoint does not reveal which emails are registered.
	var user models.User
	err := h.conn.WithContext(c.Request.Context()).Where("email = ?", strings.ToLower(req.Email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		serverError(c, err)
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.IssueToken(&user, h.cfg.JWTSecret, h.cfg.TokenTTL)
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token})
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		badRequest(c, validation.FirstError(err))
		return
	}

	var user models.User
	err := h.conn.WithContext(c.Request.Context()).Where("email = ?", strings.ToLower(req.Email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "User not found with given mail")
			return
		}
		serverError(c, err)
		return
	}

	value, err := generateResetToken()
	if err != nil {
		serverError(c, err)
		return
	}

	// A new request invalidates any outstanding token for the user, so at
	// most one reset link is live at a time.
	err = h.conn.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.ResetToken{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.ResetToken{UserID: user.ID, Token: value}).Error
	})
	if err != nil {
		serverError(c, err)
		return
	}

	h.mailService.SendPasswordResetEmail(user.Email, value)

	c.JSON(http.StatusOK, gin.H{"message": "Password reset link sent to your email account"})
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,password"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		badRequest(c, validation.FirstError(err))
		return
	}

	var reset models.ResetToken
	err := h.conn.WithContext(c.Request.Context()).Where("token = ?", req.Token).First(&reset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Invalid or expired token")
			return
		}
		serverError(c, err)
		return
	}

	var user models.User
	if err := h.conn.WithContext(c.Request.Context()).First(&user, reset.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "User not found")
			return
		}
		serverError(c, err)
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		serverError(c, err)
		return
	}

	// Update and consume the token together: a reset link is single use.
	err = h.conn.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("password", hash).Error; err != nil {
			return err
		}
		return tx.Delete(&reset).Error
	})
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

func generateResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
