package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/weatherscraper/internal/extract"
)

//go:embed templates/weatherscraper.yaml
var stationTemplate embed.FS

// stationFileName is the default station file name.
const stationFileName = "weatherscraper.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a station file template",
		Long: `Init writes a commented station file to the current directory.

The generated file lists one entry per supported station code. Replace the
example URLs with the pages that publish your stations' bulletins.

Examples:
  # Create weatherscraper.yaml in the current directory
  weatherscraper init

  # Create the station file at a specific path
  weatherscraper init -o /etc/weatherscraper/stations.yaml

  # Force overwrite an existing file
  weatherscraper init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", stationFileName,
		"Output file path for the station file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite an existing station file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("station file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := stationTemplate.ReadFile("templates/weatherscraper.yaml")
	if err != nil {
		return fmt.Errorf("failed to read station file template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0o600); err != nil {
		return fmt.Errorf("failed to write station file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created station file: %s\n", outputPath)
	fmt.Fprintf(out, "\nSupported station codes: %s\n", strings.Join(extract.NewDispatcher().Stations(), ", "))
	fmt.Fprintln(out, "Edit the url of each entry, then run:")
	fmt.Fprintf(out, "  weatherscraper -f %s -p <data directory>\n", outputPath)

	return nil
}
