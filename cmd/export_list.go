package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aquilabot/SmartPC-API/internal/catalog"
	"github.com/Aquilabot/SmartPC-API/internal/models"
	"github.com/Aquilabot/SmartPC-API/pkg/pcpartpicker_automation"
)

var exportRegion string

var exportListCmd = &cobra.Command{
	Use:   "export-list PRESET_ID",
	Short: "Publish a preset as a PCPartPicker part list",
	Long: `Opens a headless browser, adds every product of the preset that links to a
PCPartPicker page to a new part list and prints the list URL.`,
	Args: cobra.ExactArgs(1),
	RunE: runExportList,
}

func init() {
	exportListCmd.Flags().StringVarP(&exportRegion, "region", "r", "pl", "PCPartPicker region (us, uk, de, pl, ...)")
	rootCmd.AddCommand(exportListCmd)
}

// presetLinks returns the product page links of build in slot order.
func presetLinks(build models.Build) []string {
	links := make([]string, 0, len(build))
	for _, slot := range models.SlotTypes {
		if c, ok := build.Get(slot); ok && c.SourceURL != "" {
			links = append(links, c.SourceURL)
		}
	}
	return links
}

func runExportList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	scorer, err := newScorer(cfg)
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg, scorer)
	if err != nil {
		return err
	}
	defer store.Close()

	preset, err := store.GetPreset(ctx, args[0])
	if err != nil {
		return fmt.Errorf("preset %s: %w", args[0], err)
	}
	build, _, err := catalog.ResolveBuild(ctx, store, preset.ComponentMap)
	if err != nil {
		return err
	}

	listURL, err := pcpartpicker_automation.ExportPartList(exportRegion, presetLinks(build))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), listURL)
	return nil
}
