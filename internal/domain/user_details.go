package domain

import "time"

var (
	AgeBrackets = []string{"Under 18", "18-24", "25-34", "35-44", "45-54", "55-64", "65 or older", "Prefer not to say"}
	Genders     = []string{"Male", "Female", "Non-binary", "Prefer to self-describe", "Prefer not to say"}
	Educations  = []string{
		"Less than high school",
		"High school diploma or equivalent",
		"Some college, no degree",
		"Associate's degree",
		"Bachelor's degree",
		"Master's degree",
		"Doctoral degree or higher",
		"Prefer not to say",
	}
	AIExperiences        = []string{"Yes", "No", "Unsure"}
	AITools              = []string{"chatbots", "recommendation", "professionalAI", "creativeAI", "otherAI"}
	AccessibilityAnswers = []string{"Yes", "No", "Prefer not to say"}
)

// UserDetails is the demographic survey a respondent fills in before the quizzes.
// Email is not unique; every POST stores a new record.
type UserDetails struct {
	ID                  string    `json:"_id"`
	FullName            string    `json:"fullName" validate:"required"`
	Email               string    `json:"email" validate:"required,email"`
	Phone               string    `json:"phone,omitempty" validate:"omitempty,len=10,numeric"`
	Age                 string    `json:"age" validate:"required,age_bracket"`
	Gender              string    `json:"gender" validate:"required,gender"`
	GenderDescription   string    `json:"genderDescription,omitempty"`
	Education           string    `json:"education" validate:"required,education"`
	Occupation          string    `json:"occupation,omitempty"`
	AIExperience        string    `json:"aiExperience" validate:"required,ai_experience"`
	AITools             []string  `json:"aiTools,omitempty" validate:"omitempty,dive,ai_tool"`
	OtherAIText         string    `json:"otherAIText,omitempty"`
	Location            string    `json:"location" validate:"required"`
	Language            string    `json:"language" validate:"required"`
	Accessibility       string    `json:"accessibility,omitempty" validate:"omitempty,accessibility"`
	AssistiveTechnology string    `json:"assistiveTechnology,omitempty"`
	AdditionalComments  string    `json:"additionalComments,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}
