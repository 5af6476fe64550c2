package commands

import (
	"strings"

	"github.com/dyluth/factorydash/internal/printer"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Ask the factory assistant a question",
	Long: `Send a message to the factory assistant and print its reply.

The assistant understands questions about production, efficiency, downtime,
profit margins, line status, batch quality and energy use. Ask for "help" to
see what it can do.

Examples:
  factorydash ask "What is our production today?"
  factorydash ask help`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	message := strings.Join(args, " ")
	if strings.TrimSpace(message) == "" {
		return printer.Error("empty message", "Nothing to ask.", []string{"Try:\n  factorydash ask \"How is efficiency?\""})
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := cliLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	result := newAPIClient(cfg, logger).SendBotMessage(cmd.Context(), message)
	if !result.Success {
		return serverUnreachable(cfg, result.Error)
	}

	printer.Println(result.Data.Message)
	return nil
}
