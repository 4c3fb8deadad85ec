package cmd

import (
	"github.com/spf13/cobra"

	"github.com/biosecret/portfolio-api/app"
	"github.com/biosecret/portfolio-api/config"
)

var rootCmd = &cobra.Command{
	Use:   "portfolio-api",
	Short: "Portfolio API - projects, comments and todos over REST",
	Long: `portfolio-api serves the portfolio REST API: a project gallery with comments
and a per-user todo list with due-date reminders. Running it without a
subcommand is the same as "portfolio-api serve".`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server and the reminder scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, registerCmd(), seedCmd())
}

func Execute() error {
	return rootCmd.Execute()
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return app.SetupAndRunApp(cmd.Context(), cfg)
}
