package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arnavshah/roster-api-go/pkg/database"
	"github.com/arnavshah/roster-api-go/pkg/models"
	"github.com/arnavshah/roster-api-go/pkg/scheduler"
)

// CreatePerson stores a person's standing record
func (h *Handler) CreatePerson(c *gin.Context) {
	var p models.Person
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if p.Name == "" || p.Site == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and site are required"})
		return
	}

	created, err := database.CreatePerson(c.Request.Context(), h.DB, p)
	if err != nil {
		if errors.Is(err, models.ErrUnknownTeam) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.Log.Error("create person", zap.String("name", p.Name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create person"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListPeople returns every stored person
func (h *Handler) ListPeople(c *gin.Context) {
	people, err := database.ListPeople(c.Request.Context(), h.DB)
	if err != nil {
		h.Log.Error("list people", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list people"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"people": people})
}

// PutRosterEntry stores a person's vacation, days off, coverages and temporary schedules for a month
func (h *Handler) PutRosterEntry(c *gin.Context) {
	ym, ok := monthParam(c, c.Param("month"))
	if !ok {
		return
	}
	var req struct {
		Vacation      *models.Vacation            `json:"vacation"`
		DaysOff       []int                       `json:"days_off"`
		Coverages     []models.Coverage           `json:"coverages"`
		TempSchedules map[int]models.TempSchedule `json:"temp_schedules"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if problems := validateMonthData(ym, req.Vacation, req.DaysOff, req.Coverages); len(problems) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid roster entry", "problems": problems})
		return
	}

	entry := database.RosterEntry{
		PersonID:      c.Param("id"),
		YearMonth:     ym.Int(),
		DaysOff:       req.DaysOff,
		Coverages:     req.Coverages,
		TempSchedules: req.TempSchedules,
	}
	if req.Vacation != nil {
		entry.VacationStart, entry.VacationEnd = req.Vacation.Start, req.Vacation.End
	}

	if err := database.UpsertRosterEntry(c.Request.Context(), h.DB, entry); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "person not found"})
			return
		}
		h.Log.Error("upsert roster entry", zap.String("person_id", entry.PersonID), zap.Int("month", entry.YearMonth), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save roster entry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Roster entry saved"})
}

// loadMonth reads the stored roster for the :month param and recomputes working days
func (h *Handler) loadMonth(c *gin.Context) ([]models.Person, models.YearMonth, bool) {
	ym, ok := monthParam(c, c.Param("month"))
	if !ok {
		return nil, ym, false
	}
	roster, err := database.LoadRoster(c.Request.Context(), h.DB, ym)
	if err != nil {
		h.Log.Error("load roster", zap.Stringer("month", ym), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load roster"})
		return nil, ym, false
	}
	return h.Calendar.RefreshRoster(roster, ym), ym, true
}

func findPerson(roster []models.Person, id string) (models.Person, bool) {
	for _, p := range roster {
		if p.ID == id {
			return p, true
		}
	}
	return models.Person{}, false
}

func dayQuery(c *gin.Context, ym models.YearMonth) (int, bool) {
	day, err := strconv.Atoi(c.Query("day"))
	if err != nil || day < 1 || day > ym.DaysIn() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day must be a day of the month"})
		return 0, false
	}
	return day, true
}

// GetRoster returns the stored roster with working days for the month
func (h *Handler) GetRoster(c *gin.Context) {
	roster, ym, ok := h.loadMonth(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": ym, "people": roster})
}

// GetConflicts returns the staffing conflicts of the stored roster
func (h *Handler) GetConflicts(c *gin.Context) {
	roster, ym, ok := h.loadMonth(c)
	if !ok {
		return
	}
	conflicts := h.Calendar.AnalyzeConflicts(roster, ym, models.Team(c.Query("team")))
	if conflicts == nil {
		conflicts = []models.Conflict{}
	}
	h.RecordUsage(c, len(roster), len(conflicts))
	c.JSON(http.StatusOK, gin.H{"month": ym, "conflicts": conflicts})
}

// GetRosterRisk returns the break risk board of the stored roster
func (h *Handler) GetRosterRisk(c *gin.Context) {
	roster, ym, ok := h.loadMonth(c)
	if !ok {
		return
	}
	overrides, err := database.LoadOverrides(c.Request.Context(), h.DB)
	if err != nil {
		h.Log.Error("load overrides", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load overrides"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": ym, "risk": scheduler.RosterRisk(roster, overrides)})
}

// GetPersonStatus resolves a stored person's duty status
func (h *Handler) GetPersonStatus(c *gin.Context) {
	roster, ym, ok := h.loadMonth(c)
	if !ok {
		return
	}
	day, ok := dayQuery(c, ym)
	if !ok {
		return
	}
	p, found := findPerson(roster, c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "person not found"})
		return
	}
	c.JSON(http.StatusOK, scheduler.GetStatus(p, day, c.Query("time")))
}

// GetPersonAvailability classifies a stored person as a coverage candidate
func (h *Handler) GetPersonAvailability(c *gin.Context) {
	roster, ym, ok := h.loadMonth(c)
	if !ok {
		return
	}
	day, ok := dayQuery(c, ym)
	if !ok {
		return
	}
	p, found := findPerson(roster, c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "person not found"})
		return
	}
	c.JSON(http.StatusOK, scheduler.CheckAvailability(p, day))
}

// GetCandidates lists who could cover a shift on a day
func (h *Handler) GetCandidates(c *gin.Context) {
	roster, ym, ok := h.loadMonth(c)
	if !ok {
		return
	}
	day, ok := dayQuery(c, ym)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": day, "candidates": scheduler.CoverageCandidates(roster, day, c.Query("exclude"))})
}

// ListOverrides returns the pinned post risks
func (h *Handler) ListOverrides(c *gin.Context) {
	overrides, err := database.LoadOverrides(c.Request.Context(), h.DB)
	if err != nil {
		h.Log.Error("load overrides", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load overrides"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"overrides": overrides})
}

// PutOverride pins a post's risk level
func (h *Handler) PutOverride(c *gin.Context) {
	var req struct {
		Level string `json:"level" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	level, err := models.ParseRiskLevel(req.Level)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	post := c.Param("post")
	if err := database.SetOverride(c.Request.Context(), h.DB, post, level); err != nil {
		h.Log.Error("set override", zap.String("post", post), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save override"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post, "level": level})
}

// DeleteOverride removes a post's pinned risk
func (h *Handler) DeleteOverride(c *gin.Context) {
	post := c.Param("post")
	if err := database.DeleteOverride(c.Request.Context(), h.DB, post); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "override not found"})
			return
		}
		h.Log.Error("delete override", zap.String("post", post), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete override"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Override removed"})
}
