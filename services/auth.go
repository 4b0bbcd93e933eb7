package services

import (
	"errors"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/coinquest-app/quest_api/dto"
	"github.com/coinquest-app/quest_api/services/repositories"
	"github.com/coinquest-app/quest_api/shared"
)

// AuthService handles parent account registration and login. Child sessions
// are PIN-gated separately by ChildService; only parents hold credentials.
type AuthService struct {
	context.DefaultService

	sqlSvc    *SqliteService
	jwtSvc    *JWTService
	parentRep *repositories.ParentRepository
}

const AUTH_SVC = "auth_svc"

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	svc.sqlSvc = svc.Service(SQLITE_SVC).(*SqliteService)
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	svc.parentRep = repositories.NewParentRepository(svc.sqlSvc.Db())
	return nil
}

func (svc *AuthService) Register(req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if ok, err := svc.parentRep.IsEmailAvailable(req.Email); err != nil {
		return nil, shared.NewInternalError(svc.sqlSvc.HandleError(err), "failed to check email")
	} else if !ok {
		return nil, shared.NewConflictError(nil, "email already registered")
	}
	if ok, err := svc.parentRep.IsUsernameAvailable(req.Username); err != nil {
		return nil, shared.NewInternalError(svc.sqlSvc.HandleError(err), "failed to check username")
	} else if !ok {
		return nil, shared.NewConflictError(nil, "username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to secure password")
	}

	parent, err := svc.parentRep.CreateParent(req.Email, req.Username, string(hash))
	if err != nil {
		return nil, shared.NewInternalError(svc.sqlSvc.HandleError(err), "failed to create account")
	}

	return svc.issueToken(parent.ID, parent.Email, parent.Username)
}

func (svc *AuthService) Login(req dto.LoginRequest) (*dto.AuthResponse, error) {
	parent, err := svc.parentRep.GetParentByEmailOrUsername(req.EmailOrUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewUnauthorizedError(nil, "invalid credentials")
		}
		return nil, shared.NewInternalError(svc.sqlSvc.HandleError(err), "failed to load account")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(parent.Password), []byte(req.Password)); err != nil {
		return nil, shared.NewUnauthorizedError(nil, "invalid credentials")
	}

	if err := svc.parentRep.UpdateLastLogin(parent.ID); err != nil {
		return nil, shared.NewInternalError(svc.sqlSvc.HandleError(err), "failed to update login time")
	}

	return svc.issueToken(parent.ID, parent.Email, parent.Username)
}

// RequiredAuth guards routes behind a valid parent bearer token and exposes
// the parent id to downstream handlers.
func (svc *AuthService) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := svc.jwtSvc.ExtractTokenFromHeader(c.Get("Authorization"))
		if err != nil {
			return shared.NewUnauthorizedError(err, "unauthorized")
		}

		parentID, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil {
			return shared.NewUnauthorizedError(err, "unauthorized")
		}

		c.Locals(shared.ParentID, parentID)
		return c.Next()
	}
}

func (svc *AuthService) issueToken(parentID, email, username string) (*dto.AuthResponse, error) {
	token, expiresAt, err := svc.jwtSvc.ToJWT(parentID)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to issue token")
	}
	return &dto.AuthResponse{
		ParentID:  parentID,
		Email:     email,
		Username:  username,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
