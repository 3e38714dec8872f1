// Grafana dashboard rendering for the GreptimeDB-backed result tables.
package dashboard

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"manetsim/internal/telemetry"
)

//go:embed grafana-dashboard.json.tmpl
var content embed.FS

var templateFiles = []string{
	"grafana-dashboard.json.tmpl",
}

type dashboardData struct {
	MovementTable     string
	ConnectivityTable string
	PacketsTable      string
}

// Render writes the rendered dashboards to outDir. The datasource uid comes
// from the environment; table names follow the ingester's.
func Render(outDir string) error {
	funcMap := template.FuncMap{
		"env": func(key string) (string, error) {
			v := os.Getenv(key)
			if v == "" {
				return "", fmt.Errorf("environment variable %s not set", key)
			}
			return v, nil
		},
	}
	data := dashboardData{
		MovementTable:     telemetry.MovementTableName,
		ConnectivityTable: telemetry.ConnectivityTableName,
		PacketsTable:      telemetry.PacketTableName,
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	for _, tplName := range templateFiles {
		t, err := template.New(tplName).Funcs(funcMap).ParseFS(content, tplName)
		if err != nil {
			return err
		}
		outPath := filepath.Join(outDir, strings.TrimSuffix(tplName, ".tmpl"))
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		if err := t.Execute(f, data); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
