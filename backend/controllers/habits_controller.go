package controllers

import (
	"errors"
	"sync"
	"time"

	"kaizen/backend/config"
	"kaizen/backend/engine"
	"kaizen/backend/models"
	"kaizen/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HabitsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewHabitsController(db *gorm.DB, cfg *config.Config) *HabitsController {
	return &HabitsController{DB: db, Cfg: cfg}
}

// GetHabits godoc
// @Summary List habits
// @Description Returns all of the user's habits with computed streak state
// @Tags habits
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /habits [get]
func (hc *HabitsController) GetHabits(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, hc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var habits []models.Habit
	if err := hc.DB.Preload("Checks").Where("user_id = ?", userID).
		Order("created_at ASC").Find(&habits).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch habits")
	}

	today := engine.Today()

	// Привычки независимы друг от друга, серии считаем параллельно
	result := make([]fiber.Map, len(habits))
	var wg sync.WaitGroup
	for i := range habits {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result[i] = habitSummary(&habits[i], today)
		}(i)
	}
	wg.Wait()

	return utils.Success(c, fiber.StatusOK, result)
}

// habitSummary собирает привычку вместе с вычисленным состоянием серий
func habitSummary(h *models.Habit, today string) fiber.Map {
	dates := h.CheckedDates()
	prog, _ := engine.ComputeGapRuleProgress(dates, today)

	summary := fiber.Map{
		"id":            h.ID,
		"text":          h.Text,
		"cadence":       h.Cadence,
		"weekly_target": h.WeeklyTarget,
		"start_date":    h.StartDate,
		"end_date":      h.EndDate,
		"hall_of_fame":  h.HallOfFameAt,
		"total_checks":  len(dates),
		"progress":      prog,
	}

	if h.Cadence == engine.CadenceWeekly {
		ws, _ := engine.ComputeWeeklyStreak(dates, h.WeeklyTarget, today)
		summary["streak"] = ws
	} else {
		ds, _ := engine.ComputeDailyStreak(dates, today)
		summary["streak"] = ds
	}
	return summary
}

// CreateHabit godoc
// @Summary Create a habit
// @Tags habits
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /habits [post]
func (hc *HabitsController) CreateHabit(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, hc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Text         string `json:"text"`
		Cadence      string `json:"cadence"`
		WeeklyTarget int    `json:"weekly_target"`
		StartDate    string `json:"start_date"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Text == "" {
		return utils.BadRequest(c, "Habit text is required")
	}

	cadence := engine.Cadence(input.Cadence)
	switch cadence {
	case "":
		cadence = engine.CadenceDaily
	case engine.CadenceDaily, engine.CadenceWeekly:
	default:
		return utils.BadRequest(c, "Cadence must be daily or weekly")
	}

	if input.StartDate == "" {
		input.StartDate = engine.Today()
	} else if _, err := engine.ParseDateKey(input.StartDate); err != nil {
		return utils.BadRequest(c, "Invalid start_date format. Use YYYY-MM-DD")
	}

	if input.WeeklyTarget < 1 {
		input.WeeklyTarget = 2
	}

	habit := models.Habit{
		UserID:       userID,
		Text:         input.Text,
		Cadence:      cadence,
		WeeklyTarget: input.WeeklyTarget,
		StartDate:    input.StartDate,
	}
	if err := hc.DB.Create(&habit).Error; err != nil {
		return utils.InternalServerError(c, "Could not create habit")
	}

	return utils.Success(c, fiber.StatusOK, habit)
}

// GetHabitDetails godoc
// @Summary Habit details
// @Description Returns one habit with its full check history and streaks
// @Tags habits
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /habits/{id} [get]
func (hc *HabitsController) GetHabitDetails(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, hc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	habit, err := hc.findHabit(c, userID)
	if err != nil {
		return utils.NotFound(c, "Habit not found")
	}

	summary := habitSummary(habit, engine.Today())
	summary["checks"] = habit.Checks
	return utils.Success(c, fiber.StatusOK, summary)
}

// UpdateHabit godoc
// @Summary Update a habit
// @Tags habits
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /habits/{id} [put]
func (hc *HabitsController) UpdateHabit(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, hc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	habit, err := hc.findHabit(c, userID)
	if err != nil {
		return utils.NotFound(c, "Habit not found")
	}

	var input struct {
		Text         string `json:"text"`
		WeeklyTarget int    `json:"weekly_target"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Text != "" {
		habit.Text = input.Text
	}
	if input.WeeklyTarget > 0 {
		habit.WeeklyTarget = input.WeeklyTarget
	}

	if err := hc.DB.Save(habit).Error; err != nil {
		return utils.InternalServerError(c, "Could not update habit")
	}
	return utils.Success(c, fiber.StatusOK, habit)
}

// DeleteHabit godoc
// @Summary Delete a habit and its check history
// @Tags habits
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /habits/{id} [delete]
func (hc *HabitsController) DeleteHabit(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, hc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	habit, err := hc.findHabit(c, userID)
	if err != nil {
		return utils.NotFound(c, "Habit not found")
	}

	hc.DB.Where("habit_id = ?", habit.ID).Delete(&models.CheckEvent{})
	if err := hc.DB.Delete(habit).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete habit")
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "Habit deleted"})
}

// SetCheck godoc
// @Summary Set the check state for one day
// @Description Toggles a day and applies streak, points and level transitions
// @Tags habits
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /habits/{id}/checks [put]
func (hc *HabitsController) SetCheck(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, hc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	habit, err := hc.findHabit(c, userID)
	if err != nil {
		return utils.NotFound(c, "Habit not found")
	}

	var input struct {
		Date    string `json:"date"`
		Checked bool   `json:"checked"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Date == "" {
		input.Date = engine.Today()
	} else if _, err := engine.ParseDateKey(input.Date); err != nil {
		return utils.BadRequest(c, "Invalid date format. Use YYYY-MM-DD")
	}

	// Прежнее состояние дня определяется до начисления очков:
	// повторная отметка того же дня — no-op, не двойная награда
	var existing models.CheckEvent
	findErr := hc.DB.Where("habit_id = ? AND date = ?", habit.ID, input.Date).First(&existing).Error
	hasRecord := findErr == nil
	if !hasRecord && !errors.Is(findErr, gorm.ErrRecordNotFound) {
		return utils.InternalServerError(c, "Could not query check record")
	}
	today := engine.Today()

	// No-op только при совпадении с уже записанным состоянием дня.
	// Пустой день и явное "не выполнено" — разные состояния: снятие на
	// пустом дне должно создать запись, а не раствориться
	if hasRecord && existing.Checked == input.Checked {
		return utils.Success(c, fiber.StatusOK, fiber.Map{
			"habit":         habitSummary(habit, today),
			"points_earned": 0,
			"points_lost":   0,
		})
	}

	if input.Checked {
		return hc.applyCheck(c, habit, &existing, hasRecord, input.Date, today)
	}
	return hc.applyUncheck(c, habit, &existing, hasRecord, input.Date, today)
}

// applyCheck handles the unchecked→checked transition: upsert the record,
// recompute the gap-tolerant run, award points, stamp hall of fame once.
func (hc *HabitsController) applyCheck(c *fiber.Ctx, habit *models.Habit, existing *models.CheckEvent, hasRecord bool, date, today string) error {
	if hasRecord {
		existing.Checked = true
		if err := hc.DB.Save(existing).Error; err != nil {
			return utils.InternalServerError(c, "Could not update check record")
		}
	} else {
		record := models.CheckEvent{HabitID: habit.ID, Date: date, Checked: true}
		if err := hc.DB.Create(&record).Error; err != nil {
			return utils.InternalServerError(c, "Could not create check record")
		}
	}

	dates, err := hc.checkedDates(habit.ID)
	if err != nil {
		return utils.InternalServerError(c, "Could not load check history")
	}

	prog, err := engine.ComputeGapRuleProgress(dates, today)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	hallOfFameNow := prog.HallOfFame && habit.HallOfFameAt == nil
	points := engine.CalculateCheckPoints(prog.Progress, prog.IsRestart, hallOfFameNow)

	if hallOfFameNow {
		// Попадание в зал славы ставится ровно один раз и не снимается
		now := time.Now().UTC()
		habit.HallOfFameAt = &now
		habit.EndDate = &today
		if err := hc.DB.Save(habit).Error; err != nil {
			return utils.InternalServerError(c, "Could not update habit")
		}
	}

	oldTotal, newTotal, err := hc.adjustPoints(habit.UserID, points.Total)
	if err != nil {
		return utils.InternalServerError(c, "Could not update points")
	}
	levelUp, _ := engine.CheckLevelUp(oldTotal, newTotal)

	hc.DB.Preload("Checks").First(habit, habit.ID)
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"habit":         habitSummary(habit, today),
		"points_earned": points,
		"points_lost":   0,
		"level_up":      levelUp,
		"new_level":     engine.CalculateLevel(newTotal),
	})
}

// applyUncheck handles checked→unchecked: the record is deleted (not kept as
// an unchecked day) and one point is taken back, never past zero. An
// unchecked day with no record becomes an explicit unchecked record with no
// ledger movement.
func (hc *HabitsController) applyUncheck(c *fiber.Ctx, habit *models.Habit, existing *models.CheckEvent, hasRecord bool, date, today string) error {
	if !hasRecord {
		record := models.CheckEvent{HabitID: habit.ID, Date: date, Checked: false}
		if err := hc.DB.Create(&record).Error; err != nil {
			return utils.InternalServerError(c, "Could not create check record")
		}
		return utils.Success(c, fiber.StatusOK, fiber.Map{
			"habit":         habitSummary(habit, today),
			"points_earned": 0,
			"points_lost":   0,
		})
	}

	if err := hc.DB.Unscoped().Delete(existing).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete check record")
	}

	var state models.UserLevelState
	hc.DB.Where("user_id = ?", habit.UserID).FirstOrCreate(&state, models.UserLevelState{UserID: habit.UserID})

	penalty := engine.UncheckPenalty(state.TotalPoints)
	oldTotal, newTotal, err := hc.adjustPoints(habit.UserID, -penalty)
	if err != nil {
		return utils.InternalServerError(c, "Could not update points")
	}
	_, levelDown := engine.CheckLevelUp(oldTotal, newTotal)

	hc.DB.Preload("Checks").First(habit, habit.ID)
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"habit":         habitSummary(habit, today),
		"points_earned": 0,
		"points_lost":   penalty,
		"level_down":    levelDown,
		"new_level":     engine.CalculateLevel(newTotal),
	})
}

// adjustPoints применяет дельту одним атомарным выражением на стороне базы,
// чтобы параллельные отметки не теряли обновления
func (hc *HabitsController) adjustPoints(userID uint, delta int) (oldTotal, newTotal int, err error) {
	var state models.UserLevelState
	if err = hc.DB.Where("user_id = ?", userID).
		FirstOrCreate(&state, models.UserLevelState{UserID: userID}).Error; err != nil {
		return 0, 0, err
	}
	oldTotal = state.TotalPoints

	// Пол в ноль прямо в выражении: две параллельные штрафующие записи
	// не должны увести сумму в минус
	if err = hc.DB.Model(&models.UserLevelState{}).Where("user_id = ?", userID).
		UpdateColumn("total_points", gorm.Expr(
			"CASE WHEN total_points + ? < 0 THEN 0 ELSE total_points + ? END", delta, delta)).Error; err != nil {
		return 0, 0, err
	}

	if err = hc.DB.Where("user_id = ?", userID).First(&state).Error; err != nil {
		return 0, 0, err
	}
	return oldTotal, state.TotalPoints, nil
}

// checkedDates загружает отмеченные дни привычки после изменения
func (hc *HabitsController) checkedDates(habitID uint) ([]string, error) {
	var dates []string
	err := hc.DB.Model(&models.CheckEvent{}).
		Where("habit_id = ? AND checked = ?", habitID, true).
		Order("date ASC").
		Pluck("date", &dates).Error
	return dates, err
}

// findHabit ищет привычку из :id в пределах текущего пользователя
func (hc *HabitsController) findHabit(c *fiber.Ctx, userID uint) (*models.Habit, error) {
	var habit models.Habit
	err := hc.DB.Preload("Checks").
		Where("id = ? AND user_id = ?", c.Params("id"), userID).
		First(&habit).Error
	if err != nil {
		return nil, err
	}
	return &habit, nil
}
