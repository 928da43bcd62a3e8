package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"givento/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor for stored password hashes.
const PasswordCost = 10

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", &models.ValidationError{Message: "Password must be at most 72 bytes", Fields: []string{"password"}}
	}
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword returns models.ErrInvalidCredentials on a mismatch and any
// other bcrypt failure unchanged.
func CheckPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return models.ErrInvalidCredentials
	}
	return err
}

// dummyHash is compared against when the email is unknown so a failed login
// costs one bcrypt comparison either way.
var dummyHash = sync.OnceValue(func() []byte {
	hashed, err := bcrypt.GenerateFromPassword([]byte("givento-dummy-password"), PasswordCost)
	if err != nil {
		panic(err)
	}
	return hashed
})

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type UserRepository struct {
	Collection *mongo.Collection
}

func (m *UserRepository) Insert(ctx context.Context, name, email, password string, isAdmin bool) (*models.User, error) {
	email = NormalizeEmail(email)

	if _, err := m.GetByEmail(ctx, email); err == nil {
		return nil, models.ErrDuplicateEmail
	} else if !errors.Is(err, models.ErrNoRecord) {
		return nil, err
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           primitive.NewObjectID(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hashed,
		IsAdmin:      isAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err = m.Collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return nil, models.ErrDuplicateEmail
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.findOne(ctx, bson.M{"email": NormalizeEmail(email)})
}

func (m *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return m.findOne(ctx, bson.M{"_id": id})
}

func (m *UserRepository) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := m.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrNoRecord) {
		bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return nil, err
	}
	return user, nil
}

// SetAdmin grants or revokes the admin flag for the account with email.
func (m *UserRepository) SetAdmin(ctx context.Context, email string, isAdmin bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := m.Collection.UpdateOne(ctx,
		bson.M{"email": NormalizeEmail(email)},
		bson.M{"$set": bson.M{"isAdmin": isAdmin, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("set admin: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNoRecord
	}
	return nil
}

func (m *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	err := m.Collection.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}
