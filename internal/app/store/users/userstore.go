package userstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/portfolio/internal/app/system/apierr"
	"github.com/dalemusser/portfolio/internal/app/system/normalize"
	"github.com/dalemusser/portfolio/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Secret fields are excluded from every read that is not a credential check.
var publicProjection = bson.M{"password": 0, "otp": 0}

var (
	// ErrDuplicateEmail is returned when an email already belongs to another user.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "admin"|"user"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

func isDup(err error) bool {
	return wafflemongo.IsDup(err) || mongo.IsDuplicateKeyError(err)
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apierr.ErrUserNotFound
	}
	return err
}

// GetByID loads a user without secret fields.
// Returns apierr.ErrUserNotFound when no user matches.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	opts := options.FindOne().SetProjection(publicProjection)
	if err := s.c.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&u); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// GetByEmailWithPassword loads a user by normalized email including the
// password hash. Only the login path uses it.
func (s *Store) GetByEmailWithPassword(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	opts := options.FindOne().SetProjection(bson.M{"otp": 0})
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}, opts).Decode(&u); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// GetPasswordHash returns only the stored password hash of a user.
func (s *Store) GetPasswordHash(ctx context.Context, id primitive.ObjectID) (string, error) {
	var doc struct {
		Password string `bson:"password"`
	}
	opts := options.FindOne().SetProjection(bson.M{"password": 1})
	if err := s.c.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&doc); err != nil {
		return "", notFound(err)
	}
	return doc.Password, nil
}

// CurrentTokenVersion returns the token version of the user with the given
// hex id. An unknown or malformed id yields apierr.ErrUserNotFound.
func (s *Store) CurrentTokenVersion(ctx context.Context, userID string) (int, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, apierr.ErrUserNotFound
	}
	var doc struct {
		TokenVersion int `bson:"token_version"`
	}
	opts := options.FindOne().SetProjection(bson.M{"token_version": 1})
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&doc); err != nil {
		return 0, notFound(err)
	}
	return doc.TokenVersion, nil
}

// Create inserts a new user after normalizing fields. Password must already
// be a hash. The role defaults to admin.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.Email = normalize.Email(u.Email)
	u.Phone = normalize.Phone(u.Phone)
	u.Role = normalize.Role(u.Role)
	if u.Role == "" {
		u.Role = models.RoleAdmin
	}
	switch u.Role {
	case models.RoleAdmin, models.RoleUser:
	default:
		return models.User{}, errBadRole
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if isDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// ProfileUpdate holds the self-editable profile fields.
type ProfileUpdate struct {
	Name  string
	Email string
	Phone string
}

// UpdateProfile writes the profile fields and returns the updated user
// without secret fields. Returns ErrDuplicateEmail if the email belongs to
// another user.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) (*models.User, error) {
	set := bson.M{
		"name":       normalize.Name(upd.Name),
		"email":      normalize.Email(upd.Email),
		"updated_at": time.Now().UTC(),
	}
	update := bson.M{"$set": set}
	if phone := normalize.Phone(upd.Phone); phone != "" {
		set["phone"] = phone
	} else {
		update["$unset"] = bson.M{"phone": ""}
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(publicProjection)

	var u models.User
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&u); err != nil {
		if isDup(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, notFound(err)
	}
	return &u, nil
}

// UpdatePassword stores a new password hash and bumps the token version in
// the same update, which invalidates sessions issued before the change.
func (s *Store) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"password": hash, "updated_at": time.Now().UTC()},
		"$inc": bson.M{"token_version": 1},
	})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return apierr.ErrUserNotFound
	}
	return nil
}

// Count returns the number of users.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
