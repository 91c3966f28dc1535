package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsheet/internal/worksheet"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Print the effective generation settings as YAML",
	Long: `Print the generation settings that generate would use, after applying
the --settings file and flags. Redirect the output to start a preset file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSettings(cmd)
		if err != nil {
			return err
		}
		data, err := s.YAML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	addSettingsFlags(settingsCmd)
}

func countFlag(c worksheet.Category) string {
	return strings.ReplaceAll(c.Key(), "_", "-")
}

// addSettingsFlags registers the flags read by resolveSettings.
func addSettingsFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("settings", "", "YAML settings preset (overrides MATHSHEET_SETTINGS env var)")
	for _, c := range worksheet.Categories() {
		f.Int(countFlag(c), 0, fmt.Sprintf("Number of %s questions", c.Key()))
	}
	f.IntP("sets", "n", 1, fmt.Sprintf("Number of worksheet sets (1-%d)", worksheet.MaxBatchSize))
	f.Int("grade", 3, "School grade (1-6)")
	f.String("topic", "", "Topic or skill to focus on")
}

// resolveSettings starts from the defaults or a preset file and applies
// every flag the user set explicitly.
func resolveSettings(cmd *cobra.Command) (worksheet.Settings, error) {
	f := cmd.Flags()
	s := worksheet.DefaultSettings()

	path, _ := f.GetString("settings")
	if path == "" && appConfig != nil {
		path = appConfig.SettingsPath
	}
	if path != "" {
		loaded, err := worksheet.LoadSettings(path)
		if err != nil {
			return s, err
		}
		s = loaded
	}

	for _, c := range worksheet.Categories() {
		if name := countFlag(c); f.Changed(name) {
			n, _ := f.GetInt(name)
			s.Counts.Set(c, n)
		}
	}
	if f.Changed("sets") {
		s.BatchSize, _ = f.GetInt("sets")
	}
	if f.Changed("grade") {
		s.Grade, _ = f.GetInt("grade")
	}
	if f.Changed("topic") {
		s.Topic, _ = f.GetString("topic")
	}
	if s.Counts.Total() == 0 {
		return s, fmt.Errorf("no questions requested: set at least one category count")
	}
	return s.Normalize(), nil
}
