package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/JithuMorrison/Lingzee/internal/data/repos"
	types "github.com/JithuMorrison/Lingzee/internal/domain"
	"github.com/JithuMorrison/Lingzee/internal/platform/apierr"
	"github.com/JithuMorrison/Lingzee/internal/platform/ctxutil"
	"github.com/JithuMorrison/Lingzee/internal/platform/dbctx"
	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
)

type AuthService interface {
	Register(dbc dbctx.Context, username, email, password string) (string, *types.User, error)
	Login(dbc dbctx.Context, username, password string) (string, *types.User, error)
	// SetContextFromToken verifies tokenString, loads its user and attaches the
	// caller to ctx. Every failure is a 401.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	// EnsureAdmin creates the account as an admin, or promotes it when the
	// username is taken.
	EnsureAdmin(ctx context.Context, username, email, password string) error
	GetAccessTTL() time.Duration
}

type authService struct {
	db         *gorm.DB
	log        *logger.Logger
	userRepo   repos.UserRepo
	tokens     *TokenIssuer
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, tokens *TokenIssuer) AuthService {
	return &authService{
		db:         db,
		log:        log.With("service", "AuthService"),
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

func (as *authService) Register(dbc dbctx.Context, username, email, password string) (string, *types.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return "", nil, ErrMissingFields
	}
	exists, err := as.userRepo.UsernameOrEmailExists(dbc, username, email)
	if err != nil {
		return "", nil, fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return "", nil, ErrUserExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), as.bcryptCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}
	now := as.now().UTC()
	u := &types.User{
		Username:  username,
		Email:     email,
		Password:  string(hash),
		LastLogin: &now,
	}
	if err := as.userRepo.Create(dbc, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", nil, ErrUserExists
		}
		return "", nil, invalidAsBadRequest(wrap("create user", err))
	}
	token, err := as.tokens.Issue(u.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	as.log.Info("User registered", "user_id", u.ID)
	return token, u, nil
}

func (as *authService) Login(dbc dbctx.Context, username, password string) (string, *types.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, ErrMissingLogin
	}
	u, err := as.userRepo.GetByUsername(dbc, username)
	if err != nil {
		return "", nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return "", nil, ErrInvalidLogin
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidLogin
	}

	now := as.now().UTC()
	streak := NextStreak(u.LastLogin, u.Streak, now)
	if err := as.userRepo.RecordLogin(dbc, u.ID, streak, now); err != nil {
		return "", nil, fmt.Errorf("record login: %w", err)
	}
	u.Streak = streak
	u.LastLogin = &now

	token, err := as.tokens.Issue(u.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, u, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, ErrUnauthenticated
	}
	userID, err := as.tokens.Parse(tokenString)
	if err != nil {
		return ctx, apierr.New(http.StatusUnauthorized, "invalid_token", err)
	}
	u, err := as.userRepo.GetByID(dbctx.From(ctx), userID)
	if err != nil {
		return ctx, fmt.Errorf("load token user: %w", err)
	}
	if u == nil {
		return ctx, apierr.Unauthorized("user_not_found", "User not found")
	}
	rd := &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      u.ID,
		IsAdmin:     u.IsAdmin,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil
	}
	dbc := dbctx.From(ctx)
	existing, err := as.userRepo.GetByUsername(dbc, username)
	if err != nil {
		return fmt.Errorf("load admin user: %w", err)
	}
	if existing != nil {
		if existing.IsAdmin {
			return nil
		}
		as.log.Info("Promoting user to admin", "user_id", existing.ID)
		return as.userRepo.SetAdmin(dbc, existing.ID, true)
	}
	if strings.TrimSpace(email) == "" || password == "" {
		return errors.New("admin bootstrap needs an email and a password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), as.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	u := &types.User{
		Username: username,
		Email:    strings.TrimSpace(email),
		Password: string(hash),
		IsAdmin:  true,
	}
	if err := as.userRepo.Create(dbc, u); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	as.log.Info("Admin user created", "user_id", u.ID)
	return nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.tokens.TTL()
}
