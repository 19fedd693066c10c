package cli

import (
	"github.com/spf13/cobra"
)

func newLettersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "letters",
		Short: "Show the letter price list",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Letter

			if err := client.Get("/api/v1/letters", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
