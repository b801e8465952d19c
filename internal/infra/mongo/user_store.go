package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"quiz-submission-service/internal/domain"
)

type userDetailsDoc struct {
	ID                  bson.ObjectID `bson:"_id"`
	FullName            string        `bson:"fullName"`
	Email               string        `bson:"email"`
	Phone               string        `bson:"phone,omitempty"`
	Age                 string        `bson:"age"`
	Gender              string        `bson:"gender"`
	GenderDescription   string        `bson:"genderDescription,omitempty"`
	Education           string        `bson:"education"`
	Occupation          string        `bson:"occupation,omitempty"`
	AIExperience        string        `bson:"aiExperience"`
	AITools             []string      `bson:"aiTools,omitempty"`
	OtherAIText         string        `bson:"otherAIText,omitempty"`
	Location            string        `bson:"location"`
	Language            string        `bson:"language"`
	Accessibility       string        `bson:"accessibility,omitempty"`
	AssistiveTechnology string        `bson:"assistiveTechnology,omitempty"`
	AdditionalComments  string        `bson:"additionalComments,omitempty"`
	CreatedAt           time.Time     `bson:"createdAt"`
}

// UserDetailsStore persists demographic surveys in the userdetails collection.
type UserDetailsStore struct {
	collection *mongo.Collection
}

func NewUserDetailsStore(db *mongo.Database) *UserDetailsStore {
	return &UserDetailsStore{collection: db.Collection(UserDetailsCollection)}
}

func (s *UserDetailsStore) Create(ctx context.Context, d *domain.UserDetails) error {
	oid, err := objectID(d.ID)
	if err != nil {
		oid = bson.NewObjectID()
		d.ID = oid.Hex()
	}
	doc := userDetailsDoc{
		ID:                  oid,
		FullName:            d.FullName,
		Email:               d.Email,
		Phone:               d.Phone,
		Age:                 d.Age,
		Gender:              d.Gender,
		GenderDescription:   d.GenderDescription,
		Education:           d.Education,
		Occupation:          d.Occupation,
		AIExperience:        d.AIExperience,
		AITools:             d.AITools,
		OtherAIText:         d.OtherAIText,
		Location:            d.Location,
		Language:            d.Language,
		Accessibility:       d.Accessibility,
		AssistiveTechnology: d.AssistiveTechnology,
		AdditionalComments:  d.AdditionalComments,
		CreatedAt:           d.CreatedAt,
	}
	_, err = s.collection.InsertOne(ctx, doc)
	return mapError("insert user details", err)
}

func (s *UserDetailsStore) FindByID(ctx context.Context, id string) (domain.UserDetails, error) {
	oid, err := objectID(id)
	if err != nil {
		return domain.UserDetails{}, err
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *UserDetailsStore) FindByEmail(ctx context.Context, email string) (domain.UserDetails, error) {
	return s.findOne(ctx, bson.M{"email": email}, options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (s *UserDetailsStore) findOne(ctx context.Context, filter bson.M, opts ...options.Lister[options.FindOneOptions]) (domain.UserDetails, error) {
	var doc userDetailsDoc
	if err := s.collection.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		return domain.UserDetails{}, mapError("find user details", err)
	}
	return domain.UserDetails{
		ID:                  doc.ID.Hex(),
		FullName:            doc.FullName,
		Email:               doc.Email,
		Phone:               doc.Phone,
		Age:                 doc.Age,
		Gender:              doc.Gender,
		GenderDescription:   doc.GenderDescription,
		Education:           doc.Education,
		Occupation:          doc.Occupation,
		AIExperience:        doc.AIExperience,
		AITools:             doc.AITools,
		OtherAIText:         doc.OtherAIText,
		Location:            doc.Location,
		Language:            doc.Language,
		Accessibility:       doc.Accessibility,
		AssistiveTechnology: doc.AssistiveTechnology,
		AdditionalComments:  doc.AdditionalComments,
		CreatedAt:           doc.CreatedAt.UTC(),
	}, nil
}

type accountDoc struct {
	ID           bson.ObjectID `bson:"_id"`
	Name         string        `bson:"name"`
	Email        string        `bson:"email"`
	PasswordHash string        `bson:"passwordHash"`
	CreatedAt    time.Time     `bson:"createdAt"`
}

// AccountStore persists registered accounts in the users collection.
// Email uniqueness relies on the index created by EnsureIndexes.
type AccountStore struct {
	collection *mongo.Collection
}

func NewAccountStore(db *mongo.Database) *AccountStore {
	return &AccountStore{collection: db.Collection(AccountsCollection)}
}

func (s *AccountStore) Create(ctx context.Context, a *domain.UserAccount) error {
	oid, err := objectID(a.ID)
	if err != nil {
		oid = bson.NewObjectID()
		a.ID = oid.Hex()
	}
	doc := accountDoc{ID: oid, Name: a.Name, Email: a.Email, PasswordHash: a.PasswordHash, CreatedAt: a.CreatedAt}
	_, err = s.collection.InsertOne(ctx, doc)
	return mapError("insert account", err)
}

func (s *AccountStore) FindByID(ctx context.Context, id string) (domain.UserAccount, error) {
	oid, err := objectID(id)
	if err != nil {
		return domain.UserAccount{}, err
	}
	var doc accountDoc
	if err := s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return domain.UserAccount{}, mapError("find account", err)
	}
	return domain.UserAccount{
		ID:           doc.ID.Hex(),
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt.UTC(),
	}, nil
}
