package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnavshah/roster-api-go/pkg/database"
	"github.com/arnavshah/roster-api-go/pkg/models"
	"github.com/arnavshah/roster-api-go/pkg/scheduler"
)

// AnalyzeInput is the body of the stateless analysis endpoint
type AnalyzeInput struct {
	Month         models.YearMonth     `json:"month"`
	Team          models.Team          `json:"team,omitempty"`
	People        []models.Person      `json:"people"`
	Overrides     models.RiskOverrides `json:"overrides,omitempty"`
	RecomputeDays bool                 `json:"recompute_days"`
}

// AnalyzeResponse carries everything derived from a roster for one month
type AnalyzeResponse struct {
	Month     models.YearMonth     `json:"month"`
	People    []models.Person      `json:"people"`
	Conflicts []models.Conflict    `json:"conflicts"`
	Risk      []scheduler.PostRisk `json:"risk"`
}

// Analyze runs the conflict and risk analysis over a roster sent in the request body
func (h *Handler) Analyze(c *gin.Context) {
	var input AnalyzeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !input.Month.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month is required"})
		return
	}

	people := input.People
	if input.RecomputeDays {
		people = h.Calendar.RefreshRoster(people, input.Month)
	}
	resp := h.analyze(people, input.Month, input.Team, input.Overrides)
	h.RecordUsage(c, len(people), len(resp.Conflicts))
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) analyze(people []models.Person, ym models.YearMonth, team models.Team, overrides models.RiskOverrides) AnalyzeResponse {
	conflicts := h.Calendar.AnalyzeConflicts(people, ym, team)
	if conflicts == nil {
		conflicts = []models.Conflict{}
	}
	return AnalyzeResponse{
		Month:     ym,
		People:    people,
		Conflicts: conflicts,
		Risk:      scheduler.RosterRisk(people, overrides),
	}
}

// TeamDays returns the days a team works in a month
func (h *Handler) TeamDays(c *gin.Context) {
	ym, ok := monthParam(c, c.Query("month"))
	if !ok {
		return
	}
	team := models.NormalizeTeam(c.Param("team"))

	var vac *models.Vacation
	if start, end := c.Query("vacation_start"), c.Query("vacation_end"); start != "" || end != "" {
		s, errS := strconv.Atoi(start)
		e, errE := strconv.Atoi(end)
		if errS != nil || errE != nil || s < 1 || e < s {
			c.JSON(http.StatusBadRequest, gin.H{"error": "vacation_start and vacation_end must be days with start <= end"})
			return
		}
		vac = &models.Vacation{Start: s, End: e}
	}

	c.JSON(http.StatusOK, gin.H{
		"team":  team,
		"known": team.IsValid(),
		"month": ym,
		"days":  h.Calendar.DaysForTeam(team, ym, vac),
	})
}

// ParseTime turns schedule text into an interval and editable start/end fields
func (h *Handler) ParseTime(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	iv, ok := scheduler.ParseSchedule(req.Text)
	start, end := scheduler.ExtractTimeInputs(req.Text)
	resp := gin.H{"ok": ok, "start": start, "end": end}
	if ok {
		resp["interval"] = iv
		resp["minutes"] = iv.Duration()
	}
	c.JSON(http.StatusOK, resp)
}

// FormatTime renders a start/end pair as schedule text
func (h *Handler) FormatTime(c *gin.Context) {
	var req struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	text := scheduler.FormatTimeInputs(req.Start, req.End)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end must be HH:MM"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

// CheckLeave reports whether the last date in a note is before the month starts
func (h *Handler) CheckLeave(c *gin.Context) {
	var req struct {
		Note  string           `json:"note"`
		Month models.YearMonth `json:"month"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Month.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"returned": scheduler.CheckVacationReturn(req.Note, req.Month)})
}

// Risk scores a single post. Stored overrides apply when the body carries none.
func (h *Handler) Risk(c *gin.Context) {
	var req struct {
		Post      string               `json:"post" binding:"required"`
		Break     string               `json:"break"`
		Overrides models.RiskOverrides `json:"overrides"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	overrides := req.Overrides
	if overrides == nil && h.DB != nil {
		stored, err := database.LoadOverrides(c.Request.Context(), h.DB)
		if err != nil {
			h.Log.Error("load overrides", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load overrides"})
			return
		}
		overrides = stored
	}

	c.JSON(http.StatusOK, gin.H{
		"post":     req.Post,
		"category": scheduler.ClassifyPost(req.Post),
		"level":    scheduler.CalculateIntervalRisk(req.Post, req.Break, overrides),
	})
}

// Status resolves the duty status of a person sent in the request body
func (h *Handler) Status(c *gin.Context) {
	var req struct {
		Person models.Person `json:"person"`
		Day    int           `json:"day" binding:"required,min=1,max=31"`
		Time   string        `json:"time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, scheduler.GetStatus(req.Person, req.Day, req.Time))
}

// Availability classifies a person sent in the request body as a coverage candidate
func (h *Handler) Availability(c *gin.Context) {
	var req struct {
		Person models.Person `json:"person"`
		Day    int           `json:"day" binding:"required,min=1,max=31"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, scheduler.CheckAvailability(req.Person, req.Day))
}

func monthParam(c *gin.Context, raw string) (models.YearMonth, bool) {
	ym, err := models.ParseYearMonth(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYYMM"})
		return models.YearMonth{}, false
	}
	return ym, true
}
