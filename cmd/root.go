package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/fastask/fastask/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "fastask",
	Short: "Quick launcher for asking an LLM anything",
	Long:  `FastAsk is a keyboard-driven launcher for querying an OpenAI-compatible API, with streaming answers, screenshot attachments and a local history.`,
	Run: func(cmd *cobra.Command, args []string) {
		application, err := app.NewApplication()
		if err != nil {
			log.Fatalf("Failed to create application: %v", err)
		}
		defer application.Stop()

		if err := application.Start(); err != nil {
			log.Fatalf("Application error: %v", err)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
