package handler

import (
	"errors"
	"net/http"

	"maeum/backend/internal/database"
	"maeum/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ApplicationInput carries the matchmaking questionnaire. Saving always
// leaves the application in draft; submission is a separate step.
type ApplicationInput struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	Location string `json:"location"`

	Occupation       string `json:"occupation"`
	Education        string `json:"education"`
	Religion         string `json:"religion"`
	FamilyBackground string `json:"family_background"`
	Introduction     string `json:"introduction"`

	LifestyleSmoking  string `json:"lifestyle_smoking"`
	LifestyleDrinking string `json:"lifestyle_drinking"`
	LifestyleExercise string `json:"lifestyle_exercise"`
	LifestylePets     string `json:"lifestyle_pets"`
	LifestyleTravel   string `json:"lifestyle_travel"`

	Hobbies             []string `json:"hobbies"`
	PersonalityKeywords []string `json:"personality_keywords"`

	IdealAgeMin     int    `json:"ideal_age_min"`
	IdealAgeMax     int    `json:"ideal_age_max"`
	IdealGender     string `json:"ideal_gender"`
	IdealLocation   string `json:"ideal_location"`
	IdealOccupation string `json:"ideal_occupation"`
	IdealEducation  string `json:"ideal_education"`
	IdealReligion   string `json:"ideal_religion"`

	PreferredConditions string `json:"preferred_conditions"`
	AvoidConditions     string `json:"avoid_conditions"`
}

// SaveApplication godoc
// @Summary      Save application
// @Description  Creates or updates the caller's matchmaking application (kept as draft until submitted).
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ApplicationInput true "Application form"
// @Success      200  {object}  models.Application
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /applications/me [put]
func SaveApplication(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var input ApplicationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var app models.Application
	err := database.DB.Where("user_id = ?", viewerID).First(&app).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load application"})
		return
	}

	app.UserID = viewerID.(uint)
	app.Name = input.Name
	app.Age = input.Age
	app.Gender = input.Gender
	app.Location = input.Location
	app.Occupation = input.Occupation
	app.Education = input.Education
	app.Religion = input.Religion
	app.FamilyBackground = input.FamilyBackground
	app.Introduction = input.Introduction
	app.LifestyleSmoking = input.LifestyleSmoking
	app.LifestyleDrinking = input.LifestyleDrinking
	app.LifestyleExercise = input.LifestyleExercise
	app.LifestylePets = input.LifestylePets
	app.LifestyleTravel = input.LifestyleTravel
	app.Hobbies = datatypes.NewJSONSlice(input.Hobbies)
	app.PersonalityKeywords = datatypes.NewJSONSlice(input.PersonalityKeywords)
	app.IdealAgeMin = input.IdealAgeMin
	app.IdealAgeMax = input.IdealAgeMax
	app.IdealGender = input.IdealGender
	app.IdealLocation = input.IdealLocation
	app.IdealOccupation = input.IdealOccupation
	app.IdealEducation = input.IdealEducation
	app.IdealReligion = input.IdealReligion
	app.PreferredConditions = input.PreferredConditions
	app.AvoidConditions = input.AvoidConditions
	if app.Status == "" {
		app.Status = models.ApplicationDraft
	}

	if err := database.DB.Save(&app).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save application"})
		return
	}

	c.JSON(http.StatusOK, app)
}

// GetMyApplication godoc
// @Summary      Get own application
// @Description  Retrieves the caller's application, draft or submitted.
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.Application
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /applications/me [get]
func GetMyApplication(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var app models.Application
	if err := database.DB.Where("user_id = ?", viewerID).First(&app).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	c.JSON(http.StatusOK, app)
}

// SubmitApplication godoc
// @Summary      Submit application
// @Description  Marks the caller's application as submitted, making it eligible for matching.
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.Application
// @Failure      400  {object}  ErrorResponse "Incomplete application"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /applications/me/submit [post]
func SubmitApplication(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var app models.Application
	if err := database.DB.Where("user_id = ?", viewerID).First(&app).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	if app.Name == "" || app.Age == 0 || app.Gender == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, age and gender are required before submitting"})
		return
	}

	if err := database.DB.Model(&app).Update("status", models.ApplicationSubmitted).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit application"})
		return
	}

	app.Status = models.ApplicationSubmitted
	c.JSON(http.StatusOK, app)
}
