package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/NJRca/Metapod/internal/config"
)

var (
	researchSources []string
	researchOutput  string
)

var researchCmd = &cobra.Command{
	Use:   "research <topic>",
	Short: "Research a refactoring topic from the curated source catalog",
	Long: `Fetches and scores reference material for a topic, then prints a
synthesized summary with a confidence score. Topics with no curated
sources fall back to a code search query.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := config.LoadRuntime()
		logger := newLogger(rt.Verbose)

		researcher := newResearcher(rt, logger)
		result := researcher.Research(cmd.Context(), args[0], researchSources)

		if researchOutput == "yaml" {
			data, err := yaml.Marshal(result)
			if err != nil {
				HandleFatalError("Failed to serialize research result.", err)
			}
			fmt.Println(string(data))
			return
		}

		fmt.Println(titleStyle.Render("Research: " + result.Topic))
		fmt.Printf("Confidence: %.2f (as of %s)\n", result.Confidence, result.LastUpdated)
		if len(result.Sources) > 0 {
			fmt.Println("Sources:")
			for _, src := range result.Sources {
				fmt.Printf("  - %s\n", src)
			}
		}
		fmt.Println()
		fmt.Println(result.Summary)
	},
}

func init() {
	rootCmd.AddCommand(researchCmd)

	researchCmd.Flags().StringSliceVar(&researchSources, "source", nil, "override the catalog with explicit source URLs (repeatable)")
	researchCmd.Flags().StringVarP(&researchOutput, "output", "o", "text", "output format: text or yaml")
}
