package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show fleet summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			accounts, err := apiClient.Accounts().List(ctx, "")
			if err != nil {
				return fmt.Errorf("failed to reach server: %w", err)
			}

			byState := map[string]int{}
			for _, a := range accounts {
				byState[a.State]++
			}

			if getOutputFormat() != "table" {
				return printOutput(map[string]interface{}{
					"accounts": len(accounts),
					"by_state": byState,
				})
			}

			fmt.Println("FleetScope")
			fmt.Println(strings.Repeat("=", 40))
			fmt.Printf("  Linked accounts: %d\n", len(accounts))
			for _, state := range []string{"verified", "pending", "failed", "disabled"} {
				if n := byState[state]; n > 0 {
					fmt.Printf("    %-10s %d\n", state+":", n)
				}
			}
			return nil
		},
	}
}
