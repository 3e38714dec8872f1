package main

import (
	"github.com/spf13/cobra"

	"manetsim/internal/dashboard"
)

var dashboardOut string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render the Grafana dashboard JSON",
	Long:  "dashboard renders the bundled Grafana dashboard template against the configured GreptimeDB datasource.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboard.Render(dashboardOut)
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardOut, "out", "build", "Output directory for the rendered dashboard")
}
