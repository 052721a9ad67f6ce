package services

import (
	"IPDLedger/apperr"
	"IPDLedger/models"
	"IPDLedger/repositories"
	"IPDLedger/utils"
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Session is a successful login.
type Session struct {
	AccessToken string       `json:"accessToken"`
	User        *models.User `json:"user"`
}

// Profile is the authenticated user with the permissions of their role.
type Profile struct {
	User        *models.User        `json:"user"`
	Permissions []models.Permission `json:"permissions"`
}

// TokenGenerator issues access tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID, role string) (string, error)
}

type UserService struct {
	users  repositories.UserRepository
	tokens TokenGenerator
}

func NewUserService(users repositories.UserRepository, tokens TokenGenerator) *UserService {
	return &UserService{users: users, tokens: tokens}
}

// Login checks the credentials and issues an access token carrying the user's role.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, invalid(errors.New("email and password are required"))
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, errors.Wrap(apperr.ErrUnauthorized, "invalid email or password")
		}
		return nil, err
	}
	if !utils.CheckPassword(user.Password, in.Password) {
		return nil, errors.Wrap(apperr.ErrUnauthorized, "invalid email or password")
	}

	token, err := s.tokens.GenerateAccessToken(strconv.FormatInt(user.ID, 10), user.Role.Name)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: token, User: user}, nil
}

// CreateUser registers a staff account under an existing role.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = strings.ToUpper(strings.TrimSpace(in.Role))
	if err := utils.ValidateUserData(in.Username, in.Email, in.Password, in.Role); err != nil {
		return nil, invalid(err)
	}

	exists, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Wrap(apperr.ErrConflict, "email already registered")
	}

	role, err := s.users.GetRoleByName(ctx, in.Role)
	if err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hashed,
		RoleID:   role.ID,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	user.Role = *role
	return user, nil
}

// Me loads the acting user's profile.
func (s *UserService) Me(ctx context.Context, actor models.Actor) (*Profile, error) {
	userID, err := strconv.ParseInt(actor.ID, 10, 64)
	if err != nil {
		return nil, invalid(errors.Errorf("user id %q is not numeric", actor.ID))
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	permissions, err := s.users.GetUserPermissions(ctx, userID)
	if err != nil {
		return nil, err
	}
	if permissions == nil {
		permissions = []models.Permission{}
	}
	return &Profile{User: user, Permissions: permissions}, nil
}
