package router

import (
	"github.com/gupranay/recruitment-v11-sub000/internal/handlers"
	"github.com/gupranay/recruitment-v11-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	orgHandler := handlers.NewOrganizationHandler()
	cycleHandler := handlers.NewCycleHandler()
	applicantHandler := handlers.NewApplicantHandler()
	delibsHandler := handlers.NewDelibsHandler()
	decisionHandler := handlers.NewDecisionHandler()

	// Public Routes
	r.POST("/signup", authHandler.Signup)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	// Protected Routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/orgs", orgHandler.Create)
		authorized.POST("/orgs/:id/members", orgHandler.AddMember)
		authorized.GET("/orgs/:id/members", orgHandler.ListMembers)

		authorized.POST("/orgs/:id/cycles", cycleHandler.CreateCycle)
		authorized.GET("/orgs/:id/cycles", cycleHandler.ListCycles)
		authorized.POST("/cycles/:id/rounds", cycleHandler.CreateRound)
		authorized.GET("/cycles/:id/rounds", cycleHandler.ListRounds)
		authorized.DELETE("/rounds/:id", cycleHandler.DeleteRound)

		authorized.POST("/cycles/:id/applicants", applicantHandler.Create)
		authorized.GET("/rounds/:id/applicants", applicantHandler.ListForRound)

		// Deliberation voting
		authorized.POST("/rounds/:id/delibs", delibsHandler.GetOrCreate)
		authorized.PATCH("/delibs/:id/status", delibsHandler.SetStatus)
		authorized.POST("/delibs/:id/votes", delibsHandler.CastVote)
		authorized.DELETE("/delibs/:id/votes/:applicantRoundID", delibsHandler.ClearVote)
		authorized.GET("/delibs/:id/votes/:applicantRoundID", delibsHandler.MyVote)
		authorized.GET("/delibs/:id/results", delibsHandler.Results)

		authorized.POST("/applicant-rounds/:id/decision", decisionHandler.Decide)
	}
}
