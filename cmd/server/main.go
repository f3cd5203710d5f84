package main

import (
	"fmt"
	"log"
	"net/http"

	"maeum/backend/internal/auth"
	"maeum/backend/internal/config"
	"maeum/backend/internal/database"
	"maeum/backend/internal/handler"
	"maeum/backend/internal/sweep"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "maeum/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Maeum Matchmaking API
// @version         1.0
// @description     This is the API for the Maeum curated matchmaking service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	// Background expiry sweep for stale proposals
	sweeper := sweep.New(database.DB, config.AppConfig.SweepInterval())
	sweeper.Start()
	defer sweeper.Stop()

	router := gin.Default()

	// The frontend is a browser SPA on another origin.
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/me", handler.GetMe)
		}

		// Application routes (protected)
		applicationRoutes := apiV1.Group("/applications")
		applicationRoutes.Use(auth.AuthMiddleware())
		{
			applicationRoutes.PUT("/me", handler.SaveApplication)
			applicationRoutes.GET("/me", handler.GetMyApplication)
			applicationRoutes.POST("/me/submit", handler.SubmitApplication)
		}

		// Match routes (protected)
		matchRoutes := apiV1.Group("/matches")
		matchRoutes.Use(auth.AuthMiddleware())
		{
			matchRoutes.GET("", handler.ListMatches)
			matchRoutes.GET("/history", handler.ListMatchHistory) // Must be before /:id
			matchRoutes.GET("/:id", handler.GetMatch)
			matchRoutes.POST("/:id/respond", handler.RespondToMatch)
			matchRoutes.POST("/:id/rejection-reason", handler.SubmitRejectionReason)
			matchRoutes.POST("/:id/contact", handler.SubmitContact)
			matchRoutes.GET("/:id/contact", handler.GetContactView)
			matchRoutes.POST("/:id/payments", handler.CreateMatchPayment)
			matchRoutes.GET("/:id/payments", handler.ListMatchPayments)
		}

		// Payment settlement routes (protected)
		paymentRoutes := apiV1.Group("/payments")
		paymentRoutes.Use(auth.AuthMiddleware())
		{
			paymentRoutes.POST("/:id/complete", handler.CompletePayment)
			paymentRoutes.POST("/:id/fail", handler.FailPayment)
		}

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
		{
			adminRoutes.GET("/applications", handler.ListSubmittedApplications)
			adminRoutes.GET("/applications/:id/candidates", handler.ListCandidates)
			adminRoutes.POST("/proposals", handler.CreateProposal)
			adminRoutes.GET("/proposals", handler.ListProposals)
			adminRoutes.POST("/proposals/sweep", handler.RunExpirySweep)
			adminRoutes.GET("/rejections/summary", handler.GetRejectionBreakdown)
		}
	}

	fmt.Println("Server is running on :8080")
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(":8080"))
}
