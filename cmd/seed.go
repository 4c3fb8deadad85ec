package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/biosecret/portfolio-api/config"
	"github.com/biosecret/portfolio-api/database"
	"github.com/biosecret/portfolio-api/models"
)

func seedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import gallery projects from a YAML file",
		Long: `Import gallery projects from a YAML list such as:

  - title: Weather station
    description: ESP32 sensors reporting over MQTT
    image: /img/weather.png

Projects whose title already exists are skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projects, err := loadSeedFile(file)
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), cfg, func(store database.Store) error {
				created, err := seedProjects(cmd.Context(), store, projects)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %d of %d projects imported\n", created, len(projects))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "projects.yaml", "YAML file with the projects to import")
	return cmd
}

func loadSeedFile(path string) ([]models.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var projects []models.Project
	if err := yaml.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for i, p := range projects {
		if strings.TrimSpace(p.Title) == "" {
			return nil, fmt.Errorf("seed file: project %d has no title", i+1)
		}
	}
	return projects, nil
}

func seedProjects(ctx context.Context, store database.Store, projects []models.Project) (int, error) {
	existing, err := store.ListProjects(ctx)
	if err != nil {
		return 0, err
	}
	titles := make(map[string]bool, len(existing))
	for _, p := range existing {
		titles[p.Title] = true
	}

	created := 0
	for _, p := range projects {
		if titles[p.Title] {
			continue
		}
		if _, err := store.CreateProject(ctx, p); err != nil {
			return created, err
		}
		titles[p.Title] = true
		created++
	}
	return created, nil
}
