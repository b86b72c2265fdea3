package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/spoofpress/internal/config"
	"github.com/jonathan/spoofpress/internal/drive"
	"github.com/jonathan/spoofpress/internal/fetch"
	"github.com/jonathan/spoofpress/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the site from a Drive folder of documents",
	Long:  "Lists the documents in the given folder, extracts one article per document, and binds them onto the configured templates under the output directory.",
	RunE:  runBuild,
}

var (
	buildConfigPath  string
	buildFolderRef   string
	buildOutDir      string
	buildCredentials string
	buildTokenPath   string
	buildOrder       string
	buildUseBrowser  bool
)

func init() {
	buildCmd.Flags().StringVarP(&buildConfigPath, "config", "c", "", "Path to site configuration JSON (required)")
	buildCmd.Flags().StringVarP(&buildFolderRef, "folder", "f", "", "Drive folder URL or id (required)")
	buildCmd.Flags().StringVarP(&buildOutDir, "out", "o", "output", "Output directory")
	buildCmd.Flags().StringVar(&buildCredentials, "credentials", "credentials.json", "OAuth client credentials file")
	buildCmd.Flags().StringVar(&buildTokenPath, "token", "token.json", "Cached OAuth token file")
	buildCmd.Flags().StringVar(&buildOrder, "order", "", "Comma-separated document ids in priority order")
	buildCmd.Flags().BoolVar(&buildUseBrowser, "use-browser", false, "Render template pages in a headless browser")

	if err := buildCmd.MarkFlagRequired("config"); err != nil {
		panic(fmt.Sprintf("failed to mark config flag as required: %v", err))
	}
	if err := buildCmd.MarkFlagRequired("folder"); err != nil {
		panic(fmt.Sprintf("failed to mark folder flag as required: %v", err))
	}

	rootCmd.AddCommand(buildCmd)
}

func runBuild(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(buildConfigPath)
	if err != nil {
		return err
	}

	ctx := context.Background()

	client, err := drive.NewClient(ctx, buildCredentials, buildTokenPath)
	if err != nil {
		return err
	}
	source, err := drive.NewService(ctx, client)
	if err != nil {
		return err
	}

	builder := &site.Builder{
		Source:    source,
		Fetch:     fetch.WithOptions(fetch.DefaultOptions()),
		Config:    cfg,
		FolderRef: buildFolderRef,
		OutDir:    buildOutDir,
		Order:     splitOrder(buildOrder),
	}
	if buildUseBrowser {
		builder.PageFetch = fetch.BrowserPage(fetch.DefaultTimeout)
	}

	if err := builder.Run(ctx); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Site written to %s\n", buildOutDir)
	return nil
}

func splitOrder(order string) []string {
	if strings.TrimSpace(order) == "" {
		return nil
	}
	parts := strings.Split(order, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if id := strings.TrimSpace(p); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
