// cmd/tools/registry-updater/main.go
//
// Maintenance CLI for the pricing registry file. Supports validating a
// registry against the loader's rules, listing the configured tables, and
// updating a strategy's ranking weights in place.
//
// Usage:
//
//	registry-updater validate [-path configs/pricing-registry.json]
//	registry-updater show [-path configs/pricing-registry.json]
//	registry-updater set-strategy -name sales_boost -wr 0.3 -wp 0.2 -wb 0.5 -gamma 0.4 [-path ...]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"autotrader-workers/pkg/registry"
)

const defaultPath = "configs/pricing-registry.json"

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "validate":
		err = runValidate(os.Args[2:])
	case "show":
		err = runShow(os.Args[2:])
	case "set-strategy":
		err = runSetStrategy(os.Args[2:])
	case "help", "-h", "--help":
		help()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		help()
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func runValidate(args []string) error {
	path := pathFlag("validate", args)

	reg, err := registry.Load(path)
	if err != nil {
		return err
	}

	fmt.Printf("Registry %s is valid (version %s)\n", path, reg.Version)
	fmt.Printf("  regions:    %d\n", len(reg.Regions))
	fmt.Printf("  strategies: %d\n", len(reg.Strategies))
	fmt.Printf("  campaigns:  %d\n", len(reg.Campaigns))
	return nil
}

func runShow(args []string) error {
	path := pathFlag("show", args)

	reg, err := registry.Load(path)
	if err != nil {
		return err
	}

	fmt.Printf("Pricing registry %s (version %s)\n\n", path, reg.Version)

	fmt.Println("Regions:")
	for _, state := range sortedKeys(reg.Regions) {
		r := reg.Regions[state]
		fmt.Printf("  %-4s tax=%.4f reg=$%.0f fuel=$%.2f/gal elec=$%.2f/kWh\n",
			state, r.TaxRate, r.RegistrationFee, r.FuelPrice, r.ElectricityPrice)
	}

	fmt.Println("\nStrategies:")
	for _, name := range sortedKeys(reg.Strategies) {
		s := reg.Strategies[name]
		fmt.Printf("  %-12s wR=%.2f wP=%.2f wB=%.2f gamma=%.2f\n",
			name, s.WeightRetrieval, s.WeightPersonal, s.WeightBusiness, s.GammaRule)
	}

	fmt.Println("\nCampaigns:")
	for _, name := range sortedKeys(reg.Campaigns) {
		c := reg.Campaigns[name]
		fmt.Printf("  %-12s brands=%v multiplier=%.2f discount=%.2f\n",
			name, c.PromotedBrands, c.CampaignMultiplier, c.SeasonalDiscount)
	}
	return nil
}

func runSetStrategy(args []string) error {
	fs := flag.NewFlagSet("set-strategy", flag.ExitOnError)
	path := fs.String("path", defaultPath, "Path to registry file")
	name := fs.String("name", "", "Strategy name (e.g. sales_boost)")
	wr := fs.Float64("wr", -1, "Retrieval weight")
	wp := fs.Float64("wp", -1, "Personal weight")
	wb := fs.Float64("wb", -1, "Business weight")
	gamma := fs.Float64("gamma", -1, "Rule-vs-semantic split inside the personal weight")
	fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("set-strategy requires -name")
	}

	reg, err := registry.Load(*path)
	if err != nil {
		return err
	}

	cfg := reg.Strategies[*name]
	if *wr >= 0 {
		cfg.WeightRetrieval = *wr
	}
	if *wp >= 0 {
		cfg.WeightPersonal = *wp
	}
	if *wb >= 0 {
		cfg.WeightBusiness = *wb
	}
	if *gamma >= 0 {
		cfg.GammaRule = *gamma
	}
	reg.Strategies[*name] = cfg

	if err := save(*path, reg); err != nil {
		return err
	}

	fmt.Printf("Strategy %q updated in %s: wR=%.2f wP=%.2f wB=%.2f gamma=%.2f\n",
		*name, *path, cfg.WeightRetrieval, cfg.WeightPersonal, cfg.WeightBusiness, cfg.GammaRule)
	return nil
}

func save(path string, reg *registry.PricingRegistry) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}
	return nil
}

func pathFlag(cmd string, args []string) string {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	path := fs.String("path", defaultPath, "Path to registry file")
	fs.Parse(args)
	return *path
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func help() {
	fmt.Println(`Pricing registry maintenance tool.

Commands:
  validate      Load the registry and report whether it passes validation.
  show          Print the regions, strategies, and campaigns tables.
  set-strategy  Update one strategy's ranking weights and write the file back.

Common flags:
  -path   Path to the registry file (default configs/pricing-registry.json)`)
}
