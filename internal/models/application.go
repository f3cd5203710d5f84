package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ApplicationStatus defines the lifecycle state of an applicant profile.
type ApplicationStatus string

const (
	// ApplicationDraft means the profile has been saved but not yet submitted
	// for matching. Draft profiles are invisible to the admin surface.
	ApplicationDraft ApplicationStatus = "draft"

	// ApplicationSubmitted means the profile is complete and eligible to be
	// paired into match proposals.
	ApplicationSubmitted ApplicationStatus = "submitted"
)

// Application is the applicant profile: one per user, created on first save,
// superseded by edits, never deleted.
type Application struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	// Basic info
	Name     string `gorm:"size:255" json:"name"`
	Age      int    `json:"age"`
	Gender   string `gorm:"size:20;index" json:"gender"`
	Location string `gorm:"size:255" json:"location"`

	// Background
	Occupation       string `gorm:"size:255" json:"occupation"`
	Education        string `gorm:"size:255" json:"education"`
	Religion         string `gorm:"size:100" json:"religion"`
	FamilyBackground string `json:"family_background"`
	Introduction     string `json:"introduction"`

	// Lifestyle
	LifestyleSmoking  string `gorm:"size:100" json:"lifestyle_smoking"`
	LifestyleDrinking string `gorm:"size:100" json:"lifestyle_drinking"`
	LifestyleExercise string `gorm:"size:100" json:"lifestyle_exercise"`
	LifestylePets     string `gorm:"size:100" json:"lifestyle_pets"`
	LifestyleTravel   string `gorm:"size:100" json:"lifestyle_travel"`

	Hobbies             datatypes.JSONSlice[string] `json:"hobbies"`
	PersonalityKeywords datatypes.JSONSlice[string] `json:"personality_keywords"`

	// Ideal-type preferences
	IdealAgeMin     int    `json:"ideal_age_min"`
	IdealAgeMax     int    `json:"ideal_age_max"`
	IdealGender     string `gorm:"size:20" json:"ideal_gender"`
	IdealLocation   string `gorm:"size:255" json:"ideal_location"`
	IdealOccupation string `gorm:"size:255" json:"ideal_occupation"`
	IdealEducation  string `gorm:"size:255" json:"ideal_education"`
	IdealReligion   string `gorm:"size:100" json:"ideal_religion"`

	// Preferred / avoid conditions are first-class columns, not packed into
	// the introduction text.
	PreferredConditions string `json:"preferred_conditions"`
	AvoidConditions     string `json:"avoid_conditions"`

	Status ApplicationStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`

	// The owning account is never serialized with the profile; it would drag
	// the credential fields along.
	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
