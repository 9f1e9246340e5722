package main

import (
	"fmt"

	"github.com/spf13/cobra"

	mirasdk "github.com/cyberFlowTech/mira-sdk-go"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the persisted mood profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := mirasdk.ProfileSchema()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
