package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agrovista/safra-cli/internal/chat"
	"github.com/agrovista/safra-cli/pkg/openmeteo"
	"github.com/agrovista/safra-cli/pkg/openweather"
)

var chatCmd = &cobra.Command{
	Use:   "chat [pergunta]",
	Short: "Ask about the weather in Portuguese",
	Long:  `Answers simple weather questions, e.g. "como está o tempo em Sinop?" or "vai chover amanhã?". Defaults to the configured city when none is named.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		weather := openweather.NewClient(cfg.OpenWeather.Key,
			openweather.WithBaseURL(cfg.OpenWeather.BaseURL))
		responder := chat.NewResponder(weather, openmeteo.NewClient(), cfg.OpenWeather.DefaultCity)

		answer, err := responder.Answer(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, answer)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
