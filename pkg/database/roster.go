package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arnavshah/roster-api-go/pkg/models"
)

// PersonRow represents the people table: the standing part of a roster record
type PersonRow struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Team      string    `gorm:"index;not null" json:"team"`
	Site      string    `gorm:"index;not null" json:"site"`
	Post      string    `json:"post"`
	Schedule  string    `json:"schedule"`
	Break     string    `json:"break"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PersonRow) TableName() string {
	return "people"
}

// RosterEntry represents the roster_entries table: one person's month
type RosterEntry struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	PersonID      string                      `gorm:"uniqueIndex:idx_person_month;size:36;not null" json:"person_id"`
	YearMonth     int                         `gorm:"uniqueIndex:idx_person_month;not null" json:"year_month"`
	VacationStart int                         `json:"vacation_start"`
	VacationEnd   int                         `json:"vacation_end"`
	DaysOff       []int                       `gorm:"serializer:json" json:"days_off"`
	Coverages     []models.Coverage           `gorm:"serializer:json" json:"coverages"`
	TempSchedules map[int]models.TempSchedule `gorm:"serializer:json" json:"temp_schedules"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// RiskOverride represents the risk_overrides table
type RiskOverride struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Post      string    `gorm:"unique;not null" json:"post"`
	Level     string    `gorm:"not null" json:"level"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreatePerson inserts a person, assigning an id when missing
func CreatePerson(ctx context.Context, db *gorm.DB, p models.Person) (models.Person, error) {
	team, err := models.ParseTeam(string(p.Team))
	if err != nil {
		return models.Person{}, err
	}
	p.Team = team
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	row := PersonRow{
		ID:       p.ID,
		Name:     strings.TrimSpace(p.Name),
		Team:     string(p.Team),
		Site:     strings.TrimSpace(p.Site),
		Post:     p.Post,
		Schedule: p.Schedule,
		Break:    p.Break,
		Note:     p.Note,
	}
	if err := db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.Person{}, fmt.Errorf("create person: %w", err)
	}
	return p, nil
}

// ListPeople returns every standing record ordered by name
func ListPeople(ctx context.Context, db *gorm.DB) ([]PersonRow, error) {
	var rows []PersonRow
	if err := db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	return rows, nil
}

// UpsertRosterEntry stores a person's monthly data, replacing any previous entry for that month
func UpsertRosterEntry(ctx context.Context, db *gorm.DB, entry RosterEntry) error {
	var row PersonRow
	if err := db.WithContext(ctx).First(&row, "id = ?", entry.PersonID).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "person_id"}, {Name: "year_month"}},
		DoUpdates: clause.AssignmentColumns([]string{"vacation_start", "vacation_end", "days_off", "coverages", "temp_schedules", "updated_at"}),
	}).Create(&entry).Error
}

// LoadRoster joins every person with their entry for ym. Days are left for the engine to compute.
func LoadRoster(ctx context.Context, db *gorm.DB, ym models.YearMonth) ([]models.Person, error) {
	people, err := ListPeople(ctx, db)
	if err != nil {
		return nil, err
	}

	var entries []RosterEntry
	if err := db.WithContext(ctx).Where("year_month = ?", ym.Int()).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("load roster entries: %w", err)
	}
	byPerson := make(map[string]RosterEntry, len(entries))
	for _, e := range entries {
		byPerson[e.PersonID] = e
	}

	roster := make([]models.Person, 0, len(people))
	for _, row := range people {
		roster = append(roster, toPerson(row, byPerson[row.ID]))
	}
	return roster, nil
}

func toPerson(row PersonRow, entry RosterEntry) models.Person {
	p := models.Person{
		ID:            row.ID,
		Name:          row.Name,
		Team:          models.Team(row.Team),
		Site:          row.Site,
		Post:          row.Post,
		Schedule:      row.Schedule,
		Break:         row.Break,
		Note:          row.Note,
		DaysOff:       entry.DaysOff,
		Coverages:     entry.Coverages,
		TempSchedules: entry.TempSchedules,
	}
	if entry.VacationStart > 0 && entry.VacationEnd >= entry.VacationStart {
		p.Vacation = &models.Vacation{Start: entry.VacationStart, End: entry.VacationEnd}
	}
	return p
}

// LoadOverrides returns every pinned post risk. Rows with an unknown level are skipped.
func LoadOverrides(ctx context.Context, db *gorm.DB) (models.RiskOverrides, error) {
	var rows []RiskOverride
	if err := db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load overrides: %w", err)
	}
	out := make(models.RiskOverrides, len(rows))
	for _, r := range rows {
		lvl, err := models.ParseRiskLevel(r.Level)
		if err != nil {
			continue
		}
		out[r.Post] = lvl
	}
	return out, nil
}

// SetOverride pins post to level
func SetOverride(ctx context.Context, db *gorm.DB, post string, level models.RiskLevel) error {
	post = strings.TrimSpace(post)
	if post == "" {
		return errors.New("post is required")
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post"}},
		DoUpdates: clause.AssignmentColumns([]string{"level", "updated_at"}),
	}).Create(&RiskOverride{Post: post, Level: level.String()}).Error
}

// DeleteOverride removes a pin. It reports gorm.ErrRecordNotFound when post was not pinned.
func DeleteOverride(ctx context.Context, db *gorm.DB, post string) error {
	res := db.WithContext(ctx).Where("post = ?", strings.TrimSpace(post)).Delete(&RiskOverride{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
