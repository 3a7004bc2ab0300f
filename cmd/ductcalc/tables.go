package main

import (
	"encoding/json"
	"io"

	"Ductcalc/internal/calc/duct"

	"github.com/spf13/cobra"
)

var tablesOpts struct {
	overridesFile string
	asJSON        bool
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Print the rated CFM tables, with overrides applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := map[string]string{}
		cfmPerTon := ""
		if tablesOpts.overridesFile != "" {
			of, err := loadOverrideFile(tablesOpts.overridesFile)
			if err != nil {
				return err
			}
			raw = of.Overrides
			cfmPerTon = of.CFMPerTon
		}
		supply, ret, cpt := duct.ResolveTables(duct.OverridesFromMap(raw), cfmPerTon, duct.BaselineSupply(), duct.BaselineReturn())

		w := cmd.OutOrStdout()
		if tablesOpts.asJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"supply": supply, "return": ret, "cfm_per_ton": cpt})
		}
		_, err := io.WriteString(w, renderTables(supply, ret))
		return err
	},
}

func init() {
	tablesCmd.Flags().StringVarP(&tablesOpts.overridesFile, "overrides", "o", "", "YAML file with table overrides")
	tablesCmd.Flags().BoolVar(&tablesOpts.asJSON, "json", false, "Print as JSON")
	rootCmd.AddCommand(tablesCmd)
}
