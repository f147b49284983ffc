package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"bloghub/internal/auth"
	"bloghub/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// GoogleUserInfo is the userinfo payload Google returns for the token.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

func generateStateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// GoogleLogin starts the OAuth flow. The state nonce rides in the cookie
// session and is checked on the callback.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state, err := generateStateToken()
	if err != nil {
		serverError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set("oauth_state", state)
	session.Save()

	url := h.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback finishes the OAuth flow and answers with the same JWT a
// password login produces. First-time callers get an account created from
// their Google profile; an existing account with the same email gets its
// GoogleID linked.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	session := sessions.Default(c)
	savedState := session.Get("oauth_state")

	if savedState == nil || c.Query("state") != savedState.(string) {
		badRequest(c, "Invalid state parameter")
		return
	}
	session.Delete("oauth_state")
	session.Save()

	code := c.Query("code")
	if code == "" {
		badRequest(c, "Authorization code not provided")
		return
	}

	token, err := h.oauthConfig.Exchange(c.Request.Context(), code)
	if err != nil {
		serverError(c, fmt.Errorf("oauth token exchange failed: %w", err))
		return
	}

	userInfo, err := h.getGoogleUserInfo(token.AccessToken)
	if err != nil {
		serverError(c, fmt.Errorf("failed to fetch google userinfo: %w", err))
		return
	}

	if !userInfo.VerifiedEmail {
		badRequest(c, "Google email is not verified")
		return
	}

	user, err := h.findOrCreateGoogleUser(c, userInfo)
	if err != nil {
		serverError(c, err)
		return
	}

	jwtToken, err := auth.IssueToken(user, h.cfg.JWTSecret, h.cfg.TokenTTL)
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": jwtToken})
}

func (h *AuthHandler) findOrCreateGoogleUser(c *gin.Context, info *GoogleUserInfo) (*models.User, error) {
	email := strings.ToLower(info.Email)

	var user models.User
	err := h.conn.WithContext(c.Request.Context()).
		Where("google_id = ?", info.ID).Or("email = ?", email).
		First(&user).Error
	if err == nil {
		if user.GoogleID == "" {
			user.GoogleID = info.ID
			if err := h.conn.WithContext(c.Request.Context()).Save(&user).Error; err != nil {
				return nil, err
			}
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	firstName := info.GivenName
	if firstName == "" {
		firstName = strings.Split(email, "@")[0]
	}

	// OAuth accounts have no password of their own; store a hash of a
	// random value so password login stays closed until a reset.
	random, err := generateResetToken()
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(random)
	if err != nil {
		return nil, err
	}

	user = models.User{
		FirstName: firstName,
		LastName:  info.FamilyName,
		Email:     email,
		Password:  hash,
		Role:      models.RoleUser,
		GoogleID:  info.ID,
	}
	if err := h.conn.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (h *AuthHandler) getGoogleUserInfo(accessToken string) (*GoogleUserInfo, error) {
	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + accessToken)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var userInfo GoogleUserInfo
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return nil, err
	}
	return &userInfo, nil
}
