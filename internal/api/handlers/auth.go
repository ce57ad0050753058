package handlers

import (
	"errors"
	"net/http"

	"job-tracker/internal/api/middleware"
	"job-tracker/internal/services"
	"job-tracker/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

// AuthHandler holds dependencies for signup, login and logout.
type AuthHandler struct {
	service   services.UserService
	validator *validator.Validate
}

func NewAuthHandler(service services.UserService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{service: service, validator: validate}
}

func authResponse(res *services.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		Token:     res.Token,
		ExpiresAt: res.Session.ExpiresAt,
		User:      MapUserToResponse(res.User),
	}
}

// Signup godoc
// @Summary      Create an account
// @Description  Registers a new user and starts a session.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        user body      dto.SignupRequest true  "Signup details"
// @Success      201  {object}  dto.AuthResponse "Account created"
// @Failure      400  {object}  map[string]interface{} "Validation failed"
// @Failure      409  {object}  map[string]string "Email already exists"
// @Failure      429  {object}  map[string]string "Too many requests"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": FormatValidationErrors(err)})
		return
	}

	res, err := h.service.Signup(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already exists. Please login instead."})
			return
		}
		respondError(c, err, "create account")
		return
	}
	c.JSON(http.StatusCreated, authResponse(res))
}

// Login godoc
// @Summary      Log in
// @Description  Authenticates with email and password and returns a session token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body dto.LoginRequest true "Login credentials"
// @Success      200  {object}  dto.AuthResponse "Logged in"
// @Failure      400  {object}  map[string]interface{} "Validation failed"
// @Failure      401  {object}  map[string]string "Invalid email or password"
// @Failure      429  {object}  map[string]string "Too many requests"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": FormatValidationErrors(err)})
		return
	}

	res, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "log in")
		return
	}
	c.JSON(http.StatusOK, authResponse(res))
}

// Logout godoc
// @Summary      Log out
// @Description  Revokes the current session token.
// @Tags         auth
// @Produce      json
// @Success      204  "Logged out"
// @Failure      401  {object}  map[string]string "Unauthorized"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /auth/logout [post]
// @Security     BearerAuth
func (h *AuthHandler) Logout(c *gin.Context) {
	sess, err := middleware.GetSession(c)
	if err != nil {
		log.Printf("Error getting session from context: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if err := h.service.Logout(c.Request.Context(), sess); err != nil {
		respondError(c, err, "log out")
		return
	}
	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary      Current user
// @Description  Returns the account behind the session token.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.UserResponse "Current user"
// @Failure      401  {object}  map[string]string "Unauthorized"
// @Failure      404  {object}  map[string]string "User no longer exists"
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		log.Printf("Error getting user ID from context: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	user, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "retrieve user")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}
