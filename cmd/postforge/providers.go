package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/postforge/postforge/pkg/postkit/provider"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List available completion providers",
	Run: func(cmd *cobra.Command, args []string) {
		ids := provider.Available()
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Println(id)
		}
	},
}
