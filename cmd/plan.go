package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/NJRca/Metapod/internal/config"
	"github.com/NJRca/Metapod/internal/plan"
)

var (
	planStack  string
	planOutput string
)

var planCmd = &cobra.Command{
	Use:   "plan [project-path]",
	Short: "Preview the refactor plan without executing it",
	Long: `Generates the remediation plan for a project and prints it without
running any workflow phases. Useful for reviewing scope before a run.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		projectRoot := "."
		if len(args) == 1 {
			projectRoot = args[0]
		}
		stack := planStack
		if stack == "" {
			stack = config.LoadRuntime().TargetStack
		}

		steps := plan.Generate(projectRoot, stack)

		if planOutput == "yaml" {
			data, err := yaml.Marshal(steps)
			if err != nil {
				HandleFatalError("Failed to serialize plan.", err)
			}
			fmt.Println(string(data))
			return
		}

		fmt.Println(titleStyle.Render(fmt.Sprintf("Refactor plan: %d steps (%s)", len(steps), stack)))
		for _, cat := range plan.Categories() {
			printed := false
			for i, step := range steps {
				if step.Category != cat {
					continue
				}
				if !printed {
					fmt.Printf("\n%s\n", titleStyle.Render(string(cat)))
					printed = true
				}
				fmt.Printf("  %2d. %-28s risk=%-6s reversible=%t\n", i+1, step.Name, step.RiskLevel, step.Reversible)
				fmt.Printf("      %s\n", step.Description)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringVarP(&planStack, "stack", "s", "", "target stack (e.g. go-gin, node-express, python-fastapi)")
	planCmd.Flags().StringVarP(&planOutput, "output", "o", "text", "output format: text or yaml")
}
