// Package scaffold writes a starter factorydash.yml.
package scaffold

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dyluth/factorydash/internal/config"
	"github.com/dyluth/factorydash/internal/printer"
)

//go:embed templates/*
var templatesFS embed.FS

// ConfigFile is the name of the file Initialize creates.
const ConfigFile = config.DefaultPath

// Initialize writes the default configuration into dir and returns its path.
// If force is true an existing file is overwritten.
func Initialize(dir string, force bool) (string, error) {
	path := filepath.Join(dir, ConfigFile)

	if !force {
		if err := CheckExisting(dir); err != nil {
			return "", err
		}
	}

	content, err := templatesFS.ReadFile("templates/factorydash.yml.tmpl")
	if err != nil {
		return "", fmt.Errorf("failed to read %s template: %w", ConfigFile, err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	// The template must stay loadable as the config evolves
	if _, err := config.Load(path); err != nil {
		return "", fmt.Errorf("created %s is invalid: %w", ConfigFile, err)
	}

	return path, nil
}

// CheckExisting returns an error if dir already holds a configuration file.
func CheckExisting(dir string) error {
	path := filepath.Join(dir, ConfigFile)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration already exists: %s\n\nUse 'factorydash init --force' to overwrite it", path)
	}
	return nil
}

// PrintSuccess prints the success message with the created file
func PrintSuccess(path string) {
	printer.Println()
	printer.Success("Created %s", path)
	printer.Println("\nNext steps:")
	printer.Println("  1. Set feed.redis_url to enable 'factorydash watch'")
	printer.Println("  2. Run 'factorydash serve' to start the API")
	printer.Println("  3. Run 'factorydash dashboard' in another terminal")
}
