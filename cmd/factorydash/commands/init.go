package commands

import (
	"github.com/dyluth/factorydash/internal/printer"
	"github.com/dyluth/factorydash/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	forceInit bool
	initDir   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter factorydash.yml",
	Long: `Write factorydash.yml with every option set to its default value.

Use --force to overwrite an existing file (WARNING: destroys existing configuration).`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing factorydash.yml")
	initCmd.Flags().StringVar(&initDir, "dir", ".", "Directory to write factorydash.yml into")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path, err := scaffold.Initialize(initDir, forceInit)
	if err != nil {
		return printer.Error("initialization failed", err.Error(), nil)
	}

	scaffold.PrintSuccess(path)
	return nil
}
