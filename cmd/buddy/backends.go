package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/block-buddy/internal/registry"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List save backends",
	Long:  `Shows the save backends that can be chosen with --backend or storage.backend.`,
	Args:  cobra.NoArgs,
	Run:   runBackends,
}

func runBackends(_ *cobra.Command, _ []string) {
	backends := registry.List()

	maxNameLen := 4 // "Name" header
	for _, b := range backends {
		maxNameLen = max(maxNameLen, len(b.Name))
	}

	fmt.Printf("  %-*s  %s\n", maxNameLen, "Name", "Description")
	fmt.Printf("  %-*s  %s\n", maxNameLen, "----", "-----------")
	for _, b := range backends {
		fmt.Printf("  %-*s  %s\n", maxNameLen, b.Name, b.Description)
	}
}
