// ABOUTME: CLI command for calculating BMI.
// ABOUTME: Validates measurements, prints the classification and optionally saves it.
package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/harperreed/bmi/internal/bmi"
	"github.com/spf13/cobra"
)

var (
	calcUnits  string
	calcWeight string
	calcHeight string
	calcInches string
	calcAge    string
	calcGender string
	calcSave   bool
	calcIdeal  bool
)

var calcCmd = &cobra.Command{
	Use:     "calc",
	Aliases: []string{"c"},
	Short:   "Calculate BMI",
	Long: `Calculate Body Mass Index from weight and height.

UNITS:

  metric     --weight in kg, --height in cm (default)
  imperial   --weight in lbs, --height in whole feet, --inches for the rest

OUTPUT:

  BMI to two decimals, the category with its color, a short description,
  a tip, and the healthy weight range for your height (BMI 18.5 to 25).
  Use --ideal to add the Devine ideal weight estimate.

EXAMPLES:

  bmi calc --weight 70 --height 175 --age 30 --gender male
  bmi calc --units imperial --weight 154 --height 5 --inches 9 --age 30 --gender female
  bmi calc --weight 82 --height 180 --age 45 --gender male --save --ideal`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, in, err := bmi.Evaluate(bmi.RawInput{
			Units:  calcUnits,
			Weight: calcWeight,
			Height: calcHeight,
			Inches: calcInches,
			Age:    calcAge,
			Gender: calcGender,
		})
		if err != nil {
			return fmt.Errorf("invalid input: %w", err)
		}

		out := cmd.OutOrStdout()
		printResult(out, res, in, calcIdeal)

		if calcSave {
			id, err := store.Save(cmd.Context(), res, in)
			if err != nil {
				return fmt.Errorf("failed to save record: %w", err)
			}
			fmt.Fprintln(out, color.GreenString("✓ Saved record #%d", id))
		}

		return nil
	},
}

// categoryColor maps a category color tag to a terminal color.
func categoryColor(tag string) *color.Color {
	switch tag {
	case "blue":
		return color.New(color.FgBlue, color.Bold)
	case "cyan":
		return color.New(color.FgCyan, color.Bold)
	case "hicyan":
		return color.New(color.FgHiCyan, color.Bold)
	case "green":
		return color.New(color.FgGreen, color.Bold)
	case "yellow":
		return color.New(color.FgYellow, color.Bold)
	case "magenta":
		return color.New(color.FgMagenta, color.Bold)
	case "red":
		return color.New(color.FgRed, color.Bold)
	case "hired":
		return color.New(color.FgHiRed, color.Bold)
	default:
		return color.New(color.Bold)
	}
}

func printResult(w io.Writer, res bmi.Result, in bmi.Input, ideal bool) {
	faint := color.New(color.Faint)

	fmt.Fprintf(w, "BMI       %s\n", color.New(color.Bold).Sprintf("%.2f", res.BMI))
	fmt.Fprintf(w, "Category  %s\n", categoryColor(res.Color()).Sprint(res.Label()))
	fmt.Fprintf(w, "          %s\n", faint.Sprint(res.Description()))
	fmt.Fprintf(w, "Tip       %s\n", res.Tip())
	fmt.Fprintf(w, "Healthy   %s\n", formatRange(res.HealthyMinKg, res.HealthyMaxKg, in.Units))

	if ideal {
		lo, hi := bmi.IdealWeightRange(res.HeightMeters, in.Gender)
		fmt.Fprintf(w, "Ideal     %s %s\n", formatRange(lo, hi, in.Units), faint.Sprint("(ideal weight, Devine)"))
	}
}

func formatRange(minKg, maxKg float64, units bmi.UnitSystem) string {
	s := fmt.Sprintf("%.1f - %.1f kg", minKg, maxKg)
	if units == bmi.Imperial {
		s += fmt.Sprintf(" (%.1f - %.1f lbs)", bmi.KgToLbs(minKg), bmi.KgToLbs(maxKg))
	}
	return s
}

func resetCalcFlags() {
	calcUnits = "metric"
	calcWeight, calcHeight, calcInches, calcAge, calcGender = "", "", "", "", ""
	calcSave, calcIdeal = false, false
}

func init() {
	calcCmd.Flags().StringVarP(&calcUnits, "units", "u", "metric", "unit system: metric or imperial")
	calcCmd.Flags().StringVarP(&calcWeight, "weight", "w", "", "weight in kg or lbs")
	calcCmd.Flags().StringVarP(&calcHeight, "height", "H", "", "height in cm, or whole feet for imperial")
	calcCmd.Flags().StringVarP(&calcInches, "inches", "i", "", "additional inches (imperial)")
	calcCmd.Flags().StringVarP(&calcAge, "age", "a", "", "age in years")
	calcCmd.Flags().StringVarP(&calcGender, "gender", "g", "", "male or female")
	calcCmd.Flags().BoolVarP(&calcSave, "save", "s", false, "save the result to history")
	calcCmd.Flags().BoolVar(&calcIdeal, "ideal", false, "include the Devine ideal weight estimate")
	rootCmd.AddCommand(calcCmd)
}
