package controllers

import (
	"strconv"

	"kaizen/backend/config"
	"kaizen/backend/engine"
	"kaizen/backend/models"
	"kaizen/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StatsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewStatsController(db *gorm.DB, cfg *config.Config) *StatsController {
	return &StatsController{DB: db, Cfg: cfg}
}

// GetStats godoc
// @Summary Aggregated habit statistics
// @Description Returns weekly/monthly breakdowns, best habits and lifetime totals
// @Tags stats
// @Accept json
// @Produce json
// @Param weeks query int false "Number of trailing weeks" default(4)
// @Param months query int false "Number of trailing months" default(3)
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /stats [get]
func (sc *StatsController) GetStats(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	weeks, _ := strconv.Atoi(c.Query("weeks", strconv.Itoa(sc.Cfg.StatsWeeks)))
	months, _ := strconv.Atoi(c.Query("months", strconv.Itoa(sc.Cfg.StatsMonths)))
	if weeks < 1 {
		weeks = 4
	}
	if months < 1 {
		months = 3
	}

	var habits []models.Habit
	if err := sc.DB.Preload("Checks").Where("user_id = ?", userID).
		Order("created_at ASC").Find(&habits).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch habits")
	}

	histories := make([]engine.HabitHistory, len(habits))
	for i := range habits {
		histories[i] = habits[i].History()
	}

	today := engine.Today()

	weekly, err := engine.ComputeWeeklyBreakdown(histories, today, weeks)
	if err != nil {
		return utils.InternalServerError(c, "Failed to compute weekly stats")
	}
	monthly, err := engine.ComputeMonthlyBreakdown(histories, today, months)
	if err != nil {
		return utils.InternalServerError(c, "Failed to compute monthly stats")
	}
	bestWeek, err := engine.BestHabitThisWeek(histories, today)
	if err != nil {
		return utils.InternalServerError(c, "Failed to rank habits")
	}
	bestOverall, err := engine.BestHabitOverall(histories, today)
	if err != nil {
		return utils.InternalServerError(c, "Failed to rank habits")
	}
	overall, err := engine.ComputeOverallStats(histories, today)
	if err != nil {
		return utils.InternalServerError(c, "Failed to compute overall stats")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"weekly":               weekly,
		"monthly":              monthly,
		"best_habit_this_week": bestWeek,
		"best_habit_overall":   bestOverall,
		"overall":              overall,
	})
}
