package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/Formlet/internal/apperr"
	"github.com/lshigami/Formlet/internal/dto"
	"github.com/lshigami/Formlet/internal/model"
	"github.com/lshigami/Formlet/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenSigner issues a signed token for the identity; wired from the
// middleware package so the secret lives in one place.
type TokenSigner func(userID uint, username string, ttl time.Duration) (string, error)

type AuthService interface {
	Register(req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(req dto.LoginRequest) (*dto.AuthResponse, error)
}

type authService struct {
	userRepo  repository.UserRepository
	signToken TokenSigner
	tokenTTL  time.Duration
}

func NewAuthService(userRepo repository.UserRepository, signToken TokenSigner) AuthService {
	return &authService{
		userRepo:  userRepo,
		signToken: signToken,
		tokenTTL:  30 * 24 * time.Hour,
	}
}

func (s *authService) Register(req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if req.Password != req.Confirmation {
		return nil, apperr.Validation("invalid registration", "passwords must match")
	}

	taken, err := s.userRepo.ExistsByUsername(req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, apperr.Validation("invalid registration", "username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(&user); err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("Register: failed to create user")
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issueToken(&user)
}

func (s *authService) Login(req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.CodeUnauthenticated, "invalid username and/or password")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperr.New(apperr.CodeUnauthenticated, "invalid username and/or password")
	}
	return s.issueToken(user)
}

func (s *authService) issueToken(user *model.User) (*dto.AuthResponse, error) {
	token, err := s.signToken(user.ID, user.Username, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &dto.AuthResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}
