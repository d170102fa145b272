package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/verdict/internal/presentation/report"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var validateCmd = &cobra.Command{
	Use:   "validate <form>",
	Short: "Validate values against a form definition",
	Long: `Loads a form definition, applies the values file and prints the validation report.
Exits with status 1 when the form is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		valuesPath, _ := cmd.Flags().GetString("values")
		group, _ := cmd.Flags().GetString("group")
		rawFormat, _ := cmd.Flags().GetString("format")

		format, err := report.ParseFormat(rawFormat)
		if err != nil {
			return err
		}

		form, err := openForm(args[0], valuesPath)
		if err != nil {
			return err
		}
		result, err := validateForm(cmd.Context(), form, group)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		out := cmd.OutOrStdout()
		switch format {
		case report.FormatJSON:
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
		case report.FormatMarkdown:
			md := report.Markdown(form.Name, result)
			if f, ok := out.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
				fmt.Fprint(out, md)
				break
			}
			render, err := report.NewRenderer()
			if err != nil {
				return err
			}
			rendered, err := render(md)
			if err != nil {
				return err
			}
			fmt.Fprint(out, rendered)
		default:
			if err := report.Text(out, form.Name, result, termenv.EnvColorProfile()); err != nil {
				return err
			}
		}

		if !result.IsValid {
			return errInvalid
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().String("values", "", "YAML or JSON file mapping value host names to values")
	validateCmd.Flags().String("group", "", "Only validate value hosts in this group")
	validateCmd.Flags().StringP("format", "f", string(report.FormatText), "Output format (text, markdown, json)")
}
