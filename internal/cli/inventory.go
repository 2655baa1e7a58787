package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fleetscope/fleetscope/pkg/client"
)

func newInventoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inventory",
		Aliases: []string{"inv"},
		Short:   "Query resources across the fleet",
	}

	cmd.AddCommand(newInventoryInstancesCmd())
	cmd.AddCommand(newInventoryDatabasesCmd())
	cmd.AddCommand(newInventoryBucketsCmd())
	cmd.AddCommand(newInventoryNetworksCmd())

	return cmd
}

// inventoryFlags attaches the shared account/region filters.
func inventoryFlags(cmd *cobra.Command, opts *client.InventoryOptions, withRegion bool) {
	cmd.Flags().StringVar(&opts.AccountID, "account", "", "limit to one AWS account id")
	if withRegion {
		cmd.Flags().StringVar(&opts.Region, "region", "", "limit to one region")
	}
}

func newInventoryInstancesCmd() *cobra.Command {
	var opts client.InventoryOptions

	cmd := &cobra.Command{
		Use:   "instances",
		Short: "List EC2 instances across all verified accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			instances, err := apiClient.Inventory().Instances(context.Background(), &opts)
			if err != nil {
				return fmt.Errorf("failed to list instances: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(instances)
			}

			t := NewTable("ACCOUNT", "REGION", "INSTANCE", "NAME", "TYPE", "STATE", "PRIVATE IP")
			for _, i := range instances {
				t.AddRow(i.AccountID, i.Region, i.InstanceID, dash(i.Name), i.InstanceType, i.State, dash(i.PrivateIP))
			}
			t.Render()
			fmt.Printf("\n%d instances\n", len(instances))
			return nil
		},
	}

	inventoryFlags(cmd, &opts, true)
	return cmd
}

func newInventoryDatabasesCmd() *cobra.Command {
	var opts client.InventoryOptions

	cmd := &cobra.Command{
		Use:   "databases",
		Short: "List RDS databases across all verified accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbs, err := apiClient.Inventory().Databases(context.Background(), &opts)
			if err != nil {
				return fmt.Errorf("failed to list databases: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(dbs)
			}

			t := NewTable("ACCOUNT", "REGION", "IDENTIFIER", "ENGINE", "CLASS", "STATUS", "MULTI-AZ")
			for _, d := range dbs {
				t.AddRow(d.AccountID, d.Region, d.Identifier, d.Engine, d.InstanceClass, d.Status, strconv.FormatBool(d.MultiAZ))
			}
			t.Render()
			fmt.Printf("\n%d databases\n", len(dbs))
			return nil
		},
	}

	inventoryFlags(cmd, &opts, true)
	return cmd
}

func newInventoryBucketsCmd() *cobra.Command {
	var opts client.InventoryOptions

	cmd := &cobra.Command{
		Use:   "buckets",
		Short: "List S3 buckets across all verified accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			buckets, err := apiClient.Inventory().Buckets(context.Background(), &opts)
			if err != nil {
				return fmt.Errorf("failed to list buckets: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(buckets)
			}

			t := NewTable("ACCOUNT", "NAME", "CREATED")
			for _, b := range buckets {
				t.AddRow(b.AccountID, b.Name, dash(b.CreatedAt))
			}
			t.Render()
			fmt.Printf("\n%d buckets\n", len(buckets))
			return nil
		},
	}

	// Buckets are globally namespaced; no region filter.
	inventoryFlags(cmd, &opts, false)
	return cmd
}

func newInventoryNetworksCmd() *cobra.Command {
	var opts client.InventoryOptions

	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List VPCs across all verified accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			vpcs, err := apiClient.Inventory().Networks(context.Background(), &opts)
			if err != nil {
				return fmt.Errorf("failed to list networks: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(vpcs)
			}

			t := NewTable("ACCOUNT", "REGION", "VPC", "NAME", "CIDR", "STATE", "DEFAULT")
			for _, v := range vpcs {
				t.AddRow(v.AccountID, v.Region, v.VPCID, dash(v.Name), v.CIDRBlock, v.State, strconv.FormatBool(v.IsDefault))
			}
			t.Render()
			fmt.Printf("\n%d networks\n", len(vpcs))
			return nil
		},
	}

	inventoryFlags(cmd, &opts, true)
	return cmd
}
