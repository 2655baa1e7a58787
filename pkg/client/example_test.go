package client_test

import (
	"context"
	"fmt"
	"log"

	"github.com/fleetscope/fleetscope/pkg/client"
)

func Example() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	ctx := context.Background()

	acct, err := c.Accounts().Link(ctx, client.LinkAccountRequest{
		AWSAccountID: "123456789012",
		Name:         "staging",
		RoleARN:      "arn:aws:iam::123456789012:role/FleetScopeAudit",
		ExternalID:   "fs-external-42",
	})
	if err != nil {
		log.Fatal(err)
	}

	result, err := c.Accounts().Verify(ctx, acct.ID)
	if err != nil {
		log.Fatal(err)
	}
	if !result.Success {
		log.Fatalf("verification failed: %s", result.Message)
	}

	instances, err := c.Inventory().Instances(ctx, &client.InventoryOptions{
		Region: "us-east-1",
	})
	if err != nil {
		log.Fatal(err)
	}
	for _, inst := range instances {
		fmt.Printf("%s %s %s\n", inst.AccountID, inst.InstanceID, inst.State)
	}
}
