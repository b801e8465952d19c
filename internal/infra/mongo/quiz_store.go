package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"quiz-submission-service/internal/domain"
)

type attemptDoc struct {
	ID             bson.ObjectID           `bson:"_id"`
	UserID         string                  `bson:"userId"`
	QuizID         string                  `bson:"quizId"`
	Answers        []string                `bson:"answers"`
	Score          int                     `bson:"score"`
	TotalQuestions int                     `bson:"totalQuestions"`
	Percentage     float64                 `bson:"percentage"`
	Results        []domain.QuestionResult `bson:"results"`
	SubmittedAt    time.Time               `bson:"submittedAt"`
}

func (d attemptDoc) toDomain() domain.QuizAttempt {
	return domain.QuizAttempt{
		ID:             d.ID.Hex(),
		UserID:         d.UserID,
		QuizID:         d.QuizID,
		Answers:        d.Answers,
		Score:          d.Score,
		TotalQuestions: d.TotalQuestions,
		Percentage:     d.Percentage,
		Results:        d.Results,
		SubmittedAt:    d.SubmittedAt.UTC(),
	}
}

// AttemptStore persists server-scored attempts in the quizsubmissions collection.
type AttemptStore struct {
	collection *mongo.Collection
}

func NewAttemptStore(db *mongo.Database) *AttemptStore {
	return &AttemptStore{collection: db.Collection(AttemptsCollection)}
}

func (s *AttemptStore) Create(ctx context.Context, a *domain.QuizAttempt) error {
	oid, err := objectID(a.ID)
	if err != nil {
		oid = bson.NewObjectID()
		a.ID = oid.Hex()
	}
	doc := attemptDoc{
		ID:             oid,
		UserID:         a.UserID,
		QuizID:         a.QuizID,
		Answers:        a.Answers,
		Score:          a.Score,
		TotalQuestions: a.TotalQuestions,
		Percentage:     a.Percentage,
		Results:        a.Results,
		SubmittedAt:    a.SubmittedAt,
	}
	_, err = s.collection.InsertOne(ctx, doc)
	return mapError("insert attempt", err)
}

func (s *AttemptStore) FindByID(ctx context.Context, id string) (domain.QuizAttempt, error) {
	oid, err := objectID(id)
	if err != nil {
		return domain.QuizAttempt{}, err
	}
	var doc attemptDoc
	if err := s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return domain.QuizAttempt{}, mapError("find attempt", err)
	}
	return doc.toDomain(), nil
}

func (s *AttemptStore) FindByUserID(ctx context.Context, userID string) ([]domain.QuizAttempt, error) {
	return s.find(ctx, bson.M{"userId": userID}, options.Find().SetSort(newestFirst))
}

func (s *AttemptStore) List(ctx context.Context, limit, skip int) ([]domain.QuizAttempt, int64, error) {
	total, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, mapError("count attempts", err)
	}
	attempts, err := s.find(ctx, bson.M{}, options.Find().SetSort(newestFirst).SetSkip(int64(skip)).SetLimit(int64(limit)))
	if err != nil {
		return nil, 0, err
	}
	return attempts, total, nil
}

func (s *AttemptStore) find(ctx context.Context, filter bson.M, opts *options.FindOptionsBuilder) ([]domain.QuizAttempt, error) {
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapError("find attempts", err)
	}
	defer cursor.Close(ctx)

	var docs []attemptDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mapError("decode attempts", err)
	}
	out := make([]domain.QuizAttempt, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toDomain())
	}
	return out, nil
}

// QuizLoader reads quiz definitions from the quizzes collection, keyed by quiz id.
type QuizLoader struct {
	collection *mongo.Collection
}

func NewQuizLoader(db *mongo.Database) *QuizLoader {
	return &QuizLoader{collection: db.Collection(QuizzesCollection)}
}

// quizDoc accepts both string ids written by SaveQuiz and ObjectId ids
// written by other clients of the same collection.
type quizDoc struct {
	ID        any               `bson:"_id"`
	Title     string            `bson:"title,omitempty"`
	Questions []domain.Question `bson:"questions"`
}

// LoadQuiz matches quizID as a string id, or as an ObjectId when it is 24 hex chars.
func (l *QuizLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	filter := bson.M{"_id": quizID}
	if oid, err := bson.ObjectIDFromHex(quizID); err == nil {
		filter = bson.M{"_id": bson.M{"$in": bson.A{quizID, oid}}}
	}
	var doc quizDoc
	err := l.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, mapError("load quiz", err)
	}
	return domain.Quiz{ID: quizID, Title: doc.Title, Questions: doc.Questions}, nil
}

// SaveQuiz upserts a quiz definition.
func (l *QuizLoader) SaveQuiz(ctx context.Context, quiz domain.Quiz) error {
	_, err := l.collection.ReplaceOne(ctx, bson.M{"_id": quiz.ID}, quiz, options.Replace().SetUpsert(true))
	return mapError("save quiz", err)
}
