// Package main provides the entry point for the spoofpress static site
// generator.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "spoofpress",
	Short: "Parody news site generator",
	Long:  "spoofpress turns a Drive folder of parody article documents into a static site that mimics a borrowed page layout.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
