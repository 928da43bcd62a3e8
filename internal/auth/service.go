package auth

import (
	"context"
	"strings"

	"givento/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Users is the account storage the service needs.
type Users interface {
	Insert(ctx context.Context, name, email, password string, isAdmin bool) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type Service struct {
	Users  Users
	Tokens *TokenManager
}

// Session is returned by a successful register or login.
type Session struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// Register creates a non-admin account and signs the new user in.
func (s *Service) Register(ctx context.Context, name, email, password string) (*Session, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, &models.ValidationError{Message: "Name, email and password are required"}
	}
	if len(password) > MaxPasswordBytes {
		return nil, &models.ValidationError{Message: "Password must be at most 72 bytes", Fields: []string{"password"}}
	}

	user, err := s.Users.Insert(ctx, name, email, password, false)
	if err != nil {
		return nil, err
	}
	return s.session(user)
}

// Login checks the credentials. An unknown email and a wrong password fail
// with the same models.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, &models.ValidationError{Message: "Email and password are required"}
	}

	user, err := s.Users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.session(user)
}

// Authorize verifies a bearer token and returns the identity it carries.
func (s *Service) Authorize(token string) (*Identity, error) {
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	id := claims.User
	return &id, nil
}

// Me loads the account behind an authorized identity.
func (s *Service) Me(ctx context.Context, id *Identity) (*models.User, error) {
	oid, err := models.ParseID(id.ID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return s.Users.GetByID(ctx, oid)
}

func (s *Service) session(user *models.User) (*Session, error) {
	token, err := s.Tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user.Public()}, nil
}
