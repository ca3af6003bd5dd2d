package services

import (
	"context"
	"strings"

	"github.com/openformlab/form-server/apperr"
	"github.com/openformlab/form-server/models"
	"github.com/openformlab/form-server/repositories"
	"github.com/openformlab/form-server/utils"
)

type CreateUserInput struct {
	Username    string
	Email       string
	FirstName   string
	LastName    string
	Password    string
	IsSuperuser bool
}

// UserService creates accounts and checks credentials. Passwords only
// ever exist in bcrypt-hashed form past this boundary.
type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

type userService struct {
	users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if strings.TrimSpace(in.Username) == "" {
		return nil, apperr.Validationf("username is required")
	}
	if in.Password == "" {
		return nil, apperr.Validationf("password is required")
	}

	taken, err := s.users.CountByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if taken > 0 {
		return nil, apperr.Validationf("username %q is already taken", in.Username)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
		IsSuperuser:  in.IsSuperuser,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		// Same answer for unknown user and wrong password.
		return nil, apperr.Forbiddenf("invalid credentials")
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, apperr.Forbiddenf("invalid credentials")
	}
	return user, nil
}
