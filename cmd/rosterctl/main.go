// Command rosterctl runs the roster engine against local JSON files and signs API keys.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/arnavshah/roster-api-go/pkg/config"
	"github.com/arnavshah/roster-api-go/pkg/models"
	"github.com/arnavshah/roster-api-go/pkg/scheduler"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rosterctl",
		Short:         "Inspect 12x36 rosters from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ./config.yaml)")

	root.AddCommand(newKeygenCmd(), newDaysCmd(), newConflictsCmd(), newRiskCmd())
	return root
}

func main() {
	// Load .env from project root
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadCalendar builds the calendar from the configured rotation anchor
func loadCalendar() (*scheduler.Calendar, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	return scheduler.NewCalendar(scheduler.Anchor{
		Month:     cfg.AnchorMonth(),
		EvenTeams: cfg.AnchorEvenTeams(),
	}), cfg, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func readRoster(path string) ([]models.Person, error) {
	var roster []models.Person
	if err := readJSON(path, &roster); err != nil {
		return nil, err
	}
	return roster, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
