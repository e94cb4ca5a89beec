package cmd

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configName = ".metapod"
	envPrefix  = "METAPOD"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// version is the application version.
	version = "1.0.0"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "metapod",
	Version: version,
	Short:   "Metapod plans and tracks refactor-and-harden workflows.",
	Long: `Metapod models a backend refactor as a fixed eight-phase workflow:
it sequences scope, baseline, planning, implementation, testing,
observability, PR and rollout phases, generates a reversible remediation
plan for the target stack, and gathers reference material to justify it.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the command tree. It is called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.metapod.yaml or ./.metapod.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads the config file and METAPOD_* environment variables.
func initConfig() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	if err := viper.ReadInConfig(); err == nil && viper.GetBool("verbose") {
		LogError("using config file: "+viper.ConfigFileUsed(), nil)
	}
}
