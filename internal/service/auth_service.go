package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ar-storefront-be/internal/dto"
	"ar-storefront-be/internal/entity"
	"ar-storefront-be/internal/pkg/auth"
	"ar-storefront-be/internal/pkg/logger"
	"ar-storefront-be/internal/pkg/mailer"
	"ar-storefront-be/internal/repository/contract"
	"ar-storefront-be/internal/repository/specification"
	"ar-storefront-be/internal/repository/unitofwork"
	"ar-storefront-be/pkg/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const authModule = "AUTH"

var (
	ErrMissingFields      = errors.New("all fields are compulsory")
	ErrUserExists         = errors.New("user already exists with this email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResult, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResult, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Me(ctx context.Context, claims *auth.Claims) (*dto.MeResponse, error)
}

type authService struct {
	uowFactory   unitofwork.RepositoryFactory
	jwtService   *auth.JWTService
	blacklist    auth.TokenBlacklist
	emailService mailer.IEmailService
	publisher    IPublisherService
	logger       logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	emailService mailer.IEmailService,
	publisher IPublisherService,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:   uowFactory,
		jwtService:   jwtService,
		blacklist:    blacklist,
		emailService: emailService,
		publisher:    publisher,
		logger:       log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResult, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	// bcrypt only reads the first 72 bytes
	if len(req.Password) > 72 {
		return nil, ErrPasswordTooLong
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		Id:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		if errors.Is(err, contract.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info(authModule, "user registered", map[string]interface{}{"user_id": user.Id})
	publishOrWarn(ctx, s.publisher, s.logger, authModule, events.New(events.UserRegistered, map[string]interface{}{
		"user_id": user.Id.String(),
		"email":   user.Email,
	}))

	go func() {
		if err := s.emailService.SendWelcome(user.Email, user.Name); err != nil {
			s.logger.Warn(authModule, "welcome mail not sent", map[string]interface{}{"error": err.Error()})
		}
	}()

	return result, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResult, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		s.logger.Error(authModule, "login lookup failed", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	publishOrWarn(ctx, s.publisher, s.logger, authModule, events.New(events.UserLogin, map[string]interface{}{
		"user_id": user.Id.String(),
	}))
	return result, nil
}

// Logout revokes the token for the rest of its lifetime.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *authService) Me(ctx context.Context, claims *auth.Claims) (*dto.MeResponse, error) {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return &dto.MeResponse{
		User:      toUserDTO(user),
		ExpiresIn: int64(claims.RemainingTTL().Seconds()),
	}, nil
}

func (s *authService) issue(user *entity.User) (*dto.AuthResult, error) {
	token, claims, err := s.jwtService.Generate(user.Id)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &dto.AuthResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      toUserDTO(user),
	}, nil
}

func toUserDTO(u *entity.User) dto.UserDTO {
	return dto.UserDTO{
		Id:        u.Id,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
