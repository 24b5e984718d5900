package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Formlet/internal/dto"
	"github.com/lshigami/Formlet/internal/service"
	"github.com/rs/zerolog/log"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register godoc
// @Summary Register a new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param registration body dto.RegisterRequest true "Username, email, password and confirmation"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input or username taken"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.authService.Register(req)
	if err != nil {
		log.Warn().Err(err).Str("username", req.Username).Msg("Register: rejected")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Log in and receive a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Username and password"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.authService.Login(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
