package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"Ductcalc/internal/calc/duct"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var calcOpts struct {
	tons          string
	houseSize     string
	sqftPerTon    string
	cfmPerTon     string
	supply        []string
	ret           []string
	overridesFile string
	set           []string
	lang          string
	asJSON        bool
}

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Calculate supply/return CFM and verdicts",
	Long: `Calculate the CFM delivered by a duct layout and classify each side.

Ducts are given as diameter:type:qty and may be repeated.

Examples:
  ductcalc calc --tons 3 --supply 8:Flex:8 --return 10:Sheet:4
  ductcalc calc --house-size 2000 --supply 8:Flex:6 --supply 12:Sheet:1
  ductcalc calc --tons 2 --return 5:Flex:4 --set return_5_Flex=30 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := buildInput()
		if err != nil {
			return err
		}
		res, err := duct.Calculate(in)
		if err != nil {
			logger.Debug("calculation failed", zap.Error(err))
			if _, ok := duct.KindOf(err); ok || errors.Is(err, duct.ErrCalculation) {
				return errors.New(duct.ErrorMessage(calcOpts.lang, err))
			}
			return err
		}
		return writeResult(cmd.OutOrStdout(), res)
	},
}

func init() {
	f := calcCmd.Flags()
	f.StringVarP(&calcOpts.tons, "tons", "t", "", "Equipment tons")
	f.StringVar(&calcOpts.houseSize, "house-size", "", "House size in sqft, used to estimate tons")
	f.StringVar(&calcOpts.sqftPerTon, "sqft-per-ton", "", fmt.Sprintf("Sqft per ton divisor (default %d)", duct.DefaultSqftPerTon))
	f.StringVar(&calcOpts.cfmPerTon, "cfm-per-ton", "", fmt.Sprintf("CFM per ton (default %d)", duct.DefaultCFMPerTon))
	f.StringArrayVarP(&calcOpts.supply, "supply", "s", nil, "Supply duct diameter:type:qty (repeatable)")
	f.StringArrayVarP(&calcOpts.ret, "return", "r", nil, "Return duct diameter:type:qty (repeatable)")
	f.StringVarP(&calcOpts.overridesFile, "overrides", "o", "", "YAML file with table overrides")
	f.StringArrayVar(&calcOpts.set, "set", nil, "Override one table cell, e.g. return_5_Flex=30 or supply_20_Sheet=xx")
	f.StringVar(&calcOpts.lang, "lang", "en", "Message language (en, es)")
	f.BoolVar(&calcOpts.asJSON, "json", false, "Print the full result as JSON")

	rootCmd.AddCommand(calcCmd)
}

func buildInput() (duct.Input, error) {
	raw := map[string]string{}
	cfmPerTon := calcOpts.cfmPerTon
	if calcOpts.overridesFile != "" {
		of, err := loadOverrideFile(calcOpts.overridesFile)
		if err != nil {
			return duct.Input{}, err
		}
		for k, v := range of.Overrides {
			raw[k] = v
		}
		if cfmPerTon == "" {
			cfmPerTon = of.CFMPerTon
		}
	}
	for _, kv := range calcOpts.set {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return duct.Input{}, fmt.Errorf("--set %q: want cell=value", kv)
		}
		if _, valid := duct.ParseOverrideKey(k); !valid {
			return duct.Input{}, fmt.Errorf("--set %q: unknown table cell", kv)
		}
		raw[k] = v
	}

	supply, err := entriesFromFlags(calcOpts.supply)
	if err != nil {
		return duct.Input{}, err
	}
	ret, err := entriesFromFlags(calcOpts.ret)
	if err != nil {
		return duct.Input{}, err
	}

	return duct.Input{
		Overrides: duct.OverridesFromMap(raw),
		CFMPerTon: cfmPerTon,
		Tonnage: duct.TonnageInput{
			UseHouseSize: calcOpts.houseSize != "",
			HouseSize:    calcOpts.houseSize,
			SqftPerTon:   calcOpts.sqftPerTon,
			Tons:         calcOpts.tons,
		},
		Supply: supply,
		Return: ret,
	}, nil
}

func writeResult(w io.Writer, res duct.CalculationResult) error {
	if calcOpts.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(duct.NewResponse(calcOpts.lang, res))
	}
	_, err := io.WriteString(w, renderResult(calcOpts.lang, res))
	return err
}
