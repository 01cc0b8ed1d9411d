package cli

import (
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spf13/cobra"

	"github.com/mkovac00/travelshare-backend/internal/config"
	"github.com/mkovac00/travelshare-backend/internal/dynamo"
)

// NewTablesCommand creates the tables command group.
func NewTablesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Manage DynamoDB tables",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "create",
		Short:         "Create the service tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, tables, err := tablesClient(cmd)
			if err != nil {
				return err
			}
			if err := dynamo.CreateTables(cmd.Context(), client, tables); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "tables created")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "drop",
		Short:         "Delete the service tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, tables, err := tablesClient(cmd)
			if err != nil {
				return err
			}
			if err := dynamo.DeleteTables(cmd.Context(), client, tables); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "tables deleted")
			return nil
		},
	})

	return cmd
}

func tablesClient(cmd *cobra.Command) (*dynamodb.Client, dynamo.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(cmd.Context())
	if err != nil {
		return nil, dynamo.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return dynamodb.NewFromConfig(awsCfg), config.LoadTables(), nil
}
