package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"quiz-submission-service/internal/domain"
)

type submissionDoc struct {
	ID               bson.ObjectID   `bson:"_id"`
	Variant          string          `bson:"variant"`
	UserEmail        string          `bson:"userEmail"`
	UserID           string          `bson:"userId,omitempty"`
	Answers          []domain.Answer `bson:"answers"`
	TotalScore       float64         `bson:"totalScore"`
	MaxPossibleScore float64         `bson:"maxPossibleScore"`
	PercentageScore  float64         `bson:"percentageScore"`
	SubmittedAt      time.Time       `bson:"submittedAt"`
}

func (d submissionDoc) toDomain() domain.Submission {
	answers := d.Answers
	if answers == nil {
		answers = []domain.Answer{}
	}
	return domain.Submission{
		ID:               d.ID.Hex(),
		Variant:          domain.Variant(d.Variant),
		UserEmail:        d.UserEmail,
		UserID:           d.UserID,
		Answers:          answers,
		TotalScore:       d.TotalScore,
		MaxPossibleScore: d.MaxPossibleScore,
		PercentageScore:  d.PercentageScore,
		SubmittedAt:      d.SubmittedAt.UTC(),
	}
}

// SubmissionStore keeps every variant in one collection, discriminated by the variant field.
type SubmissionStore struct {
	collection *mongo.Collection
}

func NewSubmissionStore(db *mongo.Database) *SubmissionStore {
	return &SubmissionStore{collection: db.Collection(SubmissionsCollection)}
}

func (s *SubmissionStore) Create(ctx context.Context, submission *domain.Submission) error {
	oid, err := objectID(submission.ID)
	if err != nil {
		oid = bson.NewObjectID()
		submission.ID = oid.Hex()
	}
	doc := submissionDoc{
		ID:               oid,
		Variant:          string(submission.Variant),
		UserEmail:        submission.UserEmail,
		UserID:           submission.UserID,
		Answers:          submission.Answers,
		TotalScore:       submission.TotalScore,
		MaxPossibleScore: submission.MaxPossibleScore,
		PercentageScore:  submission.PercentageScore,
		SubmittedAt:      submission.SubmittedAt,
	}
	_, err = s.collection.InsertOne(ctx, doc)
	return mapError("insert submission", err)
}

func (s *SubmissionStore) FindByID(ctx context.Context, variant domain.Variant, id string) (domain.Submission, error) {
	oid, err := objectID(id)
	if err != nil {
		return domain.Submission{}, err
	}
	var doc submissionDoc
	err = s.collection.FindOne(ctx, bson.M{"_id": oid, "variant": string(variant)}).Decode(&doc)
	if err != nil {
		return domain.Submission{}, mapError("find submission", err)
	}
	return doc.toDomain(), nil
}

func (s *SubmissionStore) FindByEmail(ctx context.Context, variant domain.Variant, email string) ([]domain.Submission, error) {
	return s.find(ctx, bson.M{"variant": string(variant), "userEmail": email}, options.Find().SetSort(newestFirst))
}

func (s *SubmissionStore) FindByUserID(ctx context.Context, variant domain.Variant, userID string) ([]domain.Submission, error) {
	return s.find(ctx, bson.M{"variant": string(variant), "userId": userID}, options.Find().SetSort(newestFirst))
}

func (s *SubmissionStore) List(ctx context.Context, query domain.SubmissionQuery) ([]domain.Submission, int64, error) {
	filter := bson.M{"variant": string(query.Variant)}
	if query.Email != "" {
		filter["userEmail"] = query.Email
	}

	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, mapError("count submissions", err)
	}

	opts := options.Find().
		SetSort(newestFirst).
		SetSkip(int64(query.Skip)).
		SetLimit(int64(query.Limit))
	submissions, err := s.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return submissions, total, nil
}

func (s *SubmissionStore) find(ctx context.Context, filter bson.M, opts *options.FindOptionsBuilder) ([]domain.Submission, error) {
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapError("find submissions", err)
	}
	defer cursor.Close(ctx)

	var docs []submissionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mapError("decode submissions", err)
	}
	out := make([]domain.Submission, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toDomain())
	}
	return out, nil
}
