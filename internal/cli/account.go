package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fleetscope/fleetscope/pkg/client"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage linked AWS accounts",
	}

	cmd.AddCommand(newAccountListCmd())
	cmd.AddCommand(newAccountLinkCmd())
	cmd.AddCommand(newAccountShowCmd())
	cmd.AddCommand(newAccountVerifyCmd())
	cmd.AddCommand(newAccountDisableCmd())
	cmd.AddCommand(newAccountUnlinkCmd())

	return cmd
}

func newAccountListCmd() *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List linked accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := apiClient.Accounts().List(context.Background(), state)
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(accounts)
			}

			t := NewTable("ID", "AWS ACCOUNT", "NAME", "STATE", "LAST VERIFIED")
			for _, a := range accounts {
				lastVerified := "never"
				if a.LastVerified != nil {
					lastVerified = a.LastVerified.Format("2006-01-02 15:04")
				}
				t.AddRow(a.ID, a.AWSAccountID, a.Name, formatState(a.State), lastVerified)
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "filter by state (pending, verified, failed, disabled)")
	return cmd
}

func newAccountLinkCmd() *cobra.Command {
	var req client.LinkAccountRequest

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Link a new AWS account by trust role",
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := apiClient.Accounts().Link(context.Background(), req)
			if err != nil {
				return fmt.Errorf("failed to link account: %w", err)
			}
			fmt.Printf("Linked account %s (%s), state %s\n", acct.ID, acct.AWSAccountID, acct.State)
			fmt.Println("Run 'fleetscope account verify' to activate it.")
			return nil
		},
	}

	cmd.Flags().StringVar(&req.AWSAccountID, "aws-account-id", "", "12-digit AWS account id")
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.RoleARN, "role-arn", "", "IAM role to assume")
	cmd.Flags().StringVar(&req.ExternalID, "external-id", "", "confirmation secret for the trust policy")
	cmd.Flags().StringVar(&req.Description, "description", "", "free-form description")
	_ = cmd.MarkFlagRequired("aws-account-id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("role-arn")

	return cmd
}

func newAccountShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one linked account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := apiClient.Accounts().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get account: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(acct)
			}

			fmt.Printf("ID:           %s\n", acct.ID)
			fmt.Printf("AWS account:  %s\n", acct.AWSAccountID)
			fmt.Printf("Name:         %s\n", acct.Name)
			fmt.Printf("Description:  %s\n", dash(acct.Description))
			fmt.Printf("Role ARN:     %s\n", acct.RoleARN)
			fmt.Printf("State:        %s\n", formatState(acct.State))
			if acct.LastVerified != nil {
				fmt.Printf("Last verified: %s\n", acct.LastVerified.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}

func newAccountVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <id>",
		Short: "Verify a linked account's trust role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := apiClient.Accounts().Verify(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("verification could not run: %w", err)
			}

			if result.Success {
				fmt.Printf("Account %s verified as %s\n", result.AccountID, result.ARN)
				return nil
			}
			return fmt.Errorf("verification failed: %s", result.Message)
		},
	}
}

func newAccountDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <id>",
		Short: "Disable a linked account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.Accounts().Disable(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to disable account: %w", err)
			}
			fmt.Println("Account disabled")
			return nil
		},
	}
}

func newAccountUnlinkCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "unlink <id>",
		Short: "Remove a linked account permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to unlink without --yes")
			}
			if err := apiClient.Accounts().Unlink(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to unlink account: %w", err)
			}
			fmt.Println("Account unlinked")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm removal")
	return cmd
}
