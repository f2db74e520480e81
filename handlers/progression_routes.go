// handlers/progression_routes.go
package handlers

import (
	"errors"
	"log"

	"finquest-progression/middleware"
	"finquest-progression/progression"
	"finquest-progression/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type actionRequest struct {
	ActionType  string  `json:"actionType" validate:"required,max=64"`
	Points      *int64  `json:"points"`
	Achievement *string `json:"achievement" validate:"omitempty,max=64"`
}

type actionResponse struct {
	Success       bool     `json:"success"`
	Points        int64    `json:"points"`
	TotalPoints   int64    `json:"totalPoints"`
	Level         int      `json:"level"`
	XP            int64    `json:"xp"`
	XPToNextLevel int64    `json:"xpToNextLevel"`
	LevelUp       bool     `json:"levelUp"`
	Achievement   *string  `json:"achievement"`
	Streak        int      `json:"streak"`
	Unlocked      []string `json:"unlocked"`
}

type quizRequest struct {
	ContentID      string   `json:"contentId" validate:"required,max=200"`
	Answers        []string `json:"answers" validate:"required"`
	CorrectAnswers []string `json:"correctAnswers" validate:"required,min=1"`
}

type grantRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Points int64  `json:"points" validate:"required,min=1"`
	Reason string `json:"reason" validate:"max=255"`
}

// Services bundles what the progression routes call into.
type Services struct {
	Progression  *services.ProgressionService
	Academy      *services.AcademyService
	Achievements *services.AchievementService
	Leaderboard  *services.LeaderboardService
	// BoardSize is the default leaderboard length.
	BoardSize int
}

func SetupProgressionRoutes(app *fiber.App, svc Services) {
	// 🔐 Everything under /s requires the gateway's user context.
	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Post("/progression/actions", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req actionRequest
		if err := parseAndValidate(c, &req); err != nil {
			return badRequest(c, err)
		}

		res, err := svc.Progression.RecordAction(c.UserContext(), userID, progression.Event{
			Action:      progression.ParseActionType(req.ActionType),
			Points:      req.Points,
			Achievement: req.Achievement,
		})
		if err != nil {
			return errorResponse(c, "failed to record action", err)
		}

		unlocked := res.Unlocked
		if unlocked == nil {
			unlocked = []string{}
		}
		return c.JSON(actionResponse{
			Success:       true,
			Points:        res.Points,
			TotalPoints:   res.State.TotalPoints,
			Level:         res.State.Level,
			XP:            res.State.XP,
			XPToNextLevel: res.State.XPToNextLevel,
			LevelUp:       res.LevelUp,
			Achievement:   res.Achievement,
			Streak:        res.State.Streak,
			Unlocked:      unlocked,
		})
	})

	secured.Get("/progression/profile", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		summary, err := svc.Progression.GetProfile(c.UserContext(), userID)
		if err != nil {
			return errorResponse(c, "failed to load profile", err)
		}
		return c.JSON(fiber.Map{
			"success":      true,
			"profile":      summary.View,
			"attributes":   summary.Attributes,
			"recentEvents": summary.RecentEvents,
		})
	})

	secured.Get("/progression/achievements", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		report, err := svc.Achievements.Report(c.UserContext(), userID)
		if err != nil {
			return errorResponse(c, "failed to build achievements report", err)
		}
		return c.JSON(fiber.Map{"success": true, "data": report})
	})

	secured.Post("/academy/quiz", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req quizRequest
		if err := parseAndValidate(c, &req); err != nil {
			return badRequest(c, err)
		}

		out, err := svc.Academy.CompleteQuiz(c.UserContext(), userID, services.QuizSubmission{
			ContentID:      req.ContentID,
			Answers:        req.Answers,
			CorrectAnswers: req.CorrectAnswers,
		})
		if err != nil {
			return errorResponse(c, "failed to complete quiz", err)
		}

		var achievement *string
		if out.Achievement != "" {
			achievement = &out.Achievement
		}
		return c.JSON(fiber.Map{
			"success":     true,
			"contentId":   out.ContentID,
			"score":       out.Score,
			"passed":      out.Passed,
			"xpEarned":    out.XPEarned,
			"newLevel":    out.NewLevel,
			"levelUp":     out.LevelUp,
			"achievement": achievement,
		})
	})

	secured.Get("/academy/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		p, err := svc.Academy.GetProgress(c.UserContext(), userID)
		if err != nil {
			return errorResponse(c, "failed to load academy progress", err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"progress": fiber.Map{
				"totalCompleted": p.TotalCompleted,
				"totalPassed":    p.TotalPassed,
				"passRate":       p.PassRate,
			},
			"achievements": fiber.Map{
				"unlocked": p.Unlocked,
				"next":     p.Next,
			},
		})
	})

	secured.Get("/leaderboard", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		kind := progression.ParseBoardKind(c.Query("type"))
		limit := c.QueryInt("limit", svc.BoardSize)

		board, err := svc.Leaderboard.Leaderboard(c.UserContext(), kind, limit, userID)
		if err != nil {
			return errorResponse(c, "failed to load leaderboard", err)
		}

		var userRank any
		if board.UserRank > 0 {
			userRank = board.UserRank
		}
		return c.JSON(fiber.Map{
			"success":     true,
			"leaderboard": board.Entries,
			"userRank":    userRank,
			"type":        board.Kind,
			"builtAt":     board.BuiltAt,
			"cached":      board.Cached,
		})
	})

	// Admin endpoints
	admin := secured.Group("/admin", middleware.RequireRole(middleware.AdminRole))

	admin.Post("/progression/grant", func(c *fiber.Ctx) error {
		var req grantRequest
		if err := parseAndValidate(c, &req); err != nil {
			return badRequest(c, err)
		}

		res, err := svc.Progression.GrantPoints(c.UserContext(), req.UserID, req.Points, req.Reason)
		if err != nil {
			return errorResponse(c, "points grant failed", err)
		}

		log.Printf("🛠️ [ADMIN] %s granted %d points to %s (%s)", c.Locals("user_id"), res.Points, req.UserID, req.Reason)
		return c.JSON(fiber.Map{
			"message":     "Points granted successfully",
			"user_id":     req.UserID,
			"points":      res.Points,
			"totalPoints": res.State.TotalPoints,
			"level":       res.State.Level,
		})
	})
}

func parseAndValidate(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return err
	}
	return validate.Struct(out)
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "invalid request",
		"cause": err.Error(),
	})
}

// errorResponse maps service errors onto the HTTP error envelope.
func errorResponse(c *fiber.Ctx, msg string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrProfileNotFound):
		status, msg = fiber.StatusNotFound, "Profile not found"
	case errors.Is(err, services.ErrConcurrentUpdate):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidContentID), errors.Is(err, progression.ErrEmptyQuiz):
		status = fiber.StatusBadRequest
	default:
		log.Printf("❌ [HANDLER] %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
		"cause": err.Error(),
	})
}
