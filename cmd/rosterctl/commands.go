package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arnavshah/roster-api-go/pkg/auth"
	"github.com/arnavshah/roster-api-go/pkg/models"
	"github.com/arnavshah/roster-api-go/pkg/scheduler"
)

func newKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen <userID>",
		Short: "Sign an API key for userID with the master secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadCalendar()
			if err != nil {
				return err
			}
			if cfg.Auth.APIMasterSecret == "" {
				return errors.New("API_MASTER_SECRET not found in environment or config")
			}
			key := auth.GenerateHMACKey(cfg.Auth.APIMasterSecret, args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Generated Key for %s:\n%s\n", args[0], key)
			return nil
		},
	}
}

func newDaysCmd() *cobra.Command {
	var team, month, vacation string
	cmd := &cobra.Command{
		Use:   "days",
		Short: "Print the days a team works in a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, _, err := loadCalendar()
			if err != nil {
				return err
			}
			ym, err := models.ParseYearMonth(month)
			if err != nil {
				return err
			}
			t, err := models.ParseTeam(team)
			if err != nil {
				return err
			}
			vac, err := parseVacation(vacation)
			if err != nil {
				return err
			}

			days := cal.DaysForTeam(t, ym, vac)
			parts := make([]string, len(days))
			for i, d := range days {
				parts[i] = strconv.Itoa(d)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d days): %s\n", t, ym, len(days), strings.Join(parts, " "))
			return nil
		},
	}
	cmd.Flags().StringVarP(&team, "team", "t", "", "Team id (A, B, C, D, E1, E2, ADM)")
	cmd.Flags().StringVarP(&month, "month", "m", "", "Month as YYYYMM")
	cmd.Flags().StringVar(&vacation, "vacation", "", "Vacation range, e.g. 10-15")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}

func parseVacation(s string) (*models.Vacation, error) {
	if s == "" {
		return nil, nil
	}
	from, to, ok := strings.Cut(s, "-")
	start, errS := strconv.Atoi(strings.TrimSpace(from))
	end, errE := strconv.Atoi(strings.TrimSpace(to))
	if !ok || errS != nil || errE != nil || start < 1 || end < start {
		return nil, fmt.Errorf("invalid vacation %q, want START-END", s)
	}
	return &models.Vacation{Start: start, End: end}, nil
}

func newConflictsCmd() *cobra.Command {
	var rosterPath, month, team string
	var recompute bool
	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "List understaffed days in a roster file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, _, err := loadCalendar()
			if err != nil {
				return err
			}
			ym, err := models.ParseYearMonth(month)
			if err != nil {
				return err
			}
			roster, err := readRoster(rosterPath)
			if err != nil {
				return err
			}
			if recompute {
				roster = cal.RefreshRoster(roster, ym)
			}

			conflicts := cal.AnalyzeConflicts(roster, ym, models.Team(team))
			out := cmd.OutOrStdout()
			if len(conflicts) == 0 {
				fmt.Fprintln(out, "No conflicts")
				return nil
			}
			for _, c := range conflicts {
				fmt.Fprintln(out, c.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&rosterPath, "roster", "r", "", "Roster JSON file")
	cmd.Flags().StringVarP(&month, "month", "m", "", "Month as YYYYMM")
	cmd.Flags().StringVarP(&team, "team", "t", "", "Only analyze this team")
	cmd.Flags().BoolVar(&recompute, "recompute", true, "Recompute working days from the team calendar")
	_ = cmd.MarkFlagRequired("roster")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}

func newRiskCmd() *cobra.Command {
	var rosterPath, overridesPath string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Score break coverage risk for every post in a roster file",
		RunE: func(cmd *cobra.Command, args []string) error {
			roster, err := readRoster(rosterPath)
			if err != nil {
				return err
			}
			var overrides models.RiskOverrides
			if overridesPath != "" {
				if err := readJSON(overridesPath, &overrides); err != nil {
					return err
				}
			}

			board := scheduler.RosterRisk(roster, overrides)
			if asJSON {
				return printJSON(cmd, board)
			}
			for _, r := range board {
				fmt.Fprintf(cmd.OutOrStdout(), "%-6s %-24s %-20s %s\n", r.Level, r.Post, r.Name, r.Break)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&rosterPath, "roster", "r", "", "Roster JSON file")
	cmd.Flags().StringVarP(&overridesPath, "overrides", "o", "", "JSON object of post to pinned level")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	_ = cmd.MarkFlagRequired("roster")
	return cmd
}
