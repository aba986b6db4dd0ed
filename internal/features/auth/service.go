package auth

import (
	"context"
	"crypto/subtle"
	"errors"

	common_models "go-helpdesk/internal/common/models"
	"go-helpdesk/internal/features/audit"
	"go-helpdesk/internal/features/user"
	"go-helpdesk/pkg/utils"
)

var ErrInvalidCredentials = errors.New("invalid email or access code")

type AuthService interface {
	Login(ctx context.Context, email, accessCode string) (string, error)
}

type AuthServiceImpl struct {
	UserRepo     user.UserRepository
	AuditService audit.AuditService
}

func NewAuthService(userRepo user.UserRepository, auditService audit.AuditService) AuthService {
	return &AuthServiceImpl{
		UserRepo:     userRepo,
		AuditService: auditService,
	}
}

// Login checks the access code stored in the Users sheet and issues a token
// carrying the user's role names. Lookup failures collapse into the same
// rejection as a wrong code.
func (s *AuthServiceImpl) Login(ctx context.Context, email, accessCode string) (string, error) {
	u, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if u.AccessCode == "" || subtle.ConstantTimeCompare([]byte(u.AccessCode), []byte(accessCode)) != 1 {
		return "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(u.Email, u.Name, u.RoleNames())
	if err != nil {
		return "", err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionLogin, "auth", u.Email, nil)
	return token, nil
}
