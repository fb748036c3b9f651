package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aquilabot/SmartPC-API/internal/compat"
	"github.com/Aquilabot/SmartPC-API/internal/models"
	"github.com/Aquilabot/SmartPC-API/internal/scoring"
)

var errIncompatible = errors.New("configuration is not compatible")

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check a configuration for compatibility problems",
	Long: `Reads a JSON file mapping slots to product ids, either bare
({"cpu": "...", "motherboard": "..."}) or wrapped in {"components": {...}},
and prints the compatibility report. Exits non-zero when the build has errors.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// readSlotMap accepts the request body of the validate endpoint or a bare
// slot map.
func readSlotMap(path string) (models.SlotMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Components models.SlotMap `json:"components"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Components != nil {
		return wrapped.Components, nil
	}

	var slots models.SlotMap
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return slots, nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	slots, err := readSlotMap(args[0])
	if err != nil {
		return err
	}
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

	res, err := compat.Validate(ctx, slots, store, compat.WithBuildScore(scoring.TwoFactor))
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), renderValidation(res))
	if !res.IsValid {
		return errIncompatible
	}
	return nil
}
