package routes

import (
	"kaizen/backend/config"
	"kaizen/backend/controllers"
	"kaizen/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)

	// Habit routes
	habitsController := controllers.NewHabitsController(db, cfg)
	habits := app.Group("/api/habits", authMiddleware)
	habits.Get("/", habitsController.GetHabits)
	habits.Post("/", habitsController.CreateHabit)
	habits.Get("/:id", habitsController.GetHabitDetails)
	habits.Put("/:id", habitsController.UpdateHabit)
	habits.Delete("/:id", habitsController.DeleteHabit)
	habits.Put("/:id/checks", habitsController.SetCheck)

	// Stats routes
	statsController := controllers.NewStatsController(db, cfg)
	app.Get("/api/stats", authMiddleware, statsController.GetStats)
}
