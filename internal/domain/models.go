package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// DefaultMaxPossibleScore assumes 25 questions worth up to 5 points each.
const DefaultMaxPossibleScore = 125

// Answer is a single question's response with its awarded score.
type Answer struct {
	QuestionID string  `json:"questionId" bson:"questionId"`
	Value      string  `json:"value" bson:"value"`
	Label      string  `json:"label" bson:"label"`
	Score      float64 `json:"score" bson:"score"`
}

// AnswerInput is an answer as submitted. Every field is required; a score of 0 is
// present, an omitted score is not.
type AnswerInput struct {
	QuestionID string   `json:"questionId" validate:"required"`
	Value      string   `json:"value" validate:"required"`
	Label      string   `json:"label" validate:"required"`
	Score      *float64 `json:"score" validate:"required"`
}

// Answer converts a validated input; a nil score reads as 0.
func (a AnswerInput) Answer() Answer {
	answer := Answer{QuestionID: a.QuestionID, Value: a.Value, Label: a.Label}
	if a.Score != nil {
		answer.Score = *a.Score
	}
	return answer
}

// Submission is a respondent's answer set for one quiz variant.
type Submission struct {
	ID               string    `json:"_id"`
	Variant          Variant   `json:"variant"`
	UserEmail        string    `json:"userEmail"`
	UserID           string    `json:"userId,omitempty"`
	Answers          []Answer  `json:"answers"`
	TotalScore       float64   `json:"totalScore"`
	MaxPossibleScore float64   `json:"maxPossibleScore"`
	PercentageScore  float64   `json:"percentageScore"`
	SubmittedAt      time.Time `json:"submittedAt"`
}

// SubmissionInput is the caller-supplied payload for a new submission.
// Score fields are pointers so that absence can be told apart from zero.
type SubmissionInput struct {
	UserEmail        string        `json:"userEmail"`
	UserID           string        `json:"userId,omitempty"`
	Answers          []AnswerInput `json:"answers"`
	TotalScore       *float64      `json:"totalScore"`
	MaxPossibleScore *float64      `json:"maxPossibleScore"`
	PercentageScore  *float64      `json:"percentageScore"`
}

// SubmissionView is a submission annotated with read-only derived fields.
type SubmissionView struct {
	Submission
	TotalQuestions int `json:"totalQuestions"`
	CorrectAnswers int `json:"correctAnswers"`
}

// NewSubmissionView derives totalQuestions and correctAnswers (answers scoring above zero).
func NewSubmissionView(s Submission) SubmissionView {
	correct := 0
	for _, a := range s.Answers {
		if a.Score > 0 {
			correct++
		}
	}
	return SubmissionView{
		Submission:     s,
		TotalQuestions: len(s.Answers),
		CorrectAnswers: correct,
	}
}

// SubmissionQuery filters and pages a variant's submissions.
type SubmissionQuery struct {
	Variant Variant
	Email   string
	Limit   int
	Skip    int
}

// Page is the pagination envelope returned alongside list results.
type Page struct {
	Total int64 `json:"total"`
	Limit int   `json:"limit"`
	Skip  int   `json:"skip"`
}

// UserAccount is a registered respondent. The password is only ever held as a bcrypt hash.
type UserAccount struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Question is one quiz question with its expected answer value.
type Question struct {
	ID            string   `json:"id" yaml:"id" bson:"id"`
	Prompt        string   `json:"prompt" yaml:"prompt" bson:"prompt"`
	Options       []string `json:"options,omitempty" yaml:"options" bson:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer" yaml:"correctAnswer" bson:"correctAnswer"`
}

// Quiz is an ordered collection of questions.
type Quiz struct {
	ID        string     `json:"id" yaml:"id" bson:"_id"`
	Title     string     `json:"title,omitempty" yaml:"title" bson:"title,omitempty"`
	Questions []Question `json:"questions" yaml:"questions" bson:"questions"`
}

// QuestionResult records whether one positional answer matched.
type QuestionResult struct {
	QuestionID string `json:"questionId" bson:"questionId"`
	UserAnswer string `json:"userAnswer" bson:"userAnswer"`
	IsCorrect  bool   `json:"isCorrect" bson:"isCorrect"`
}

// QuizAttemptInput is the payload of the server-scored quiz flow.
type QuizAttemptInput struct {
	UserID  string   `json:"userId"`
	QuizID  string   `json:"quizId"`
	Answers []string `json:"answers"`
}

// QuizAttempt is a server-scored submission referencing an account by id.
// The reference is advisory; the account is never looked up.
type QuizAttempt struct {
	ID             string           `json:"_id"`
	UserID         string           `json:"userId"`
	QuizID         string           `json:"quizId"`
	Answers        []string         `json:"answers"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"totalQuestions"`
	Percentage     float64          `json:"percentage"`
	Results        []QuestionResult `json:"results"`
	SubmittedAt    time.Time        `json:"submittedAt"`
}

// NewID returns a fresh 24-character hex identity, shared by every storage backend.
func NewID() string {
	return bson.NewObjectID().Hex()
}

// ValidID reports whether id is a well-formed identity.
func ValidID(id string) bool {
	_, err := bson.ObjectIDFromHex(id)
	return err == nil
}
