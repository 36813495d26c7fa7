package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func textCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "text",
		Short: "Fetch one practice paragraph and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			res := appCtx.provider.Acquire(cmd.Context())
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}

			if res.Offline {
				fmt.Fprintln(out, res.Notice)
			}
			fmt.Fprintf(out, "[%s]\n%s\n", res.Source, res.Text)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}
