package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/postforge/postforge/pkg/postkit/pipeline"
)

var (
	cfgFile      string
	providerFlag string
	modelFlag    string
	verbose      bool
)

// RootCmd is the root command for postforge
var RootCmd = &cobra.Command{
	Use:   "postforge",
	Short: "postforge generates style-matched social posts with an LLM",
	Long: `postforge generates a social media post in the style of example posts
you supply, grounded by the content of a web page you point it at.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Defaults for the recognized configuration keys
		viper.SetDefault("system_prompt", pipeline.DefaultSystemPrompt)
		viper.SetDefault("prompt_template", pipeline.DefaultPromptTemplate)
		viper.SetDefault("model_provider", "openai")
		viper.SetDefault("model_name", "")

		// Credentials only ever come from the environment
		viper.BindEnv("openai_api_key", "OPENAI_API_KEY")
		viper.BindEnv("gemini_api_key", "GEMINI_API_KEY")
		viper.BindEnv("anthropic_api_key", "ANTHROPIC_API_KEY")

		if providerFlag != "" {
			viper.Set("model_provider", providerFlag)
		}
		if modelFlag != "" {
			viper.Set("model_name", modelFlag)
		}
	},
}

func Execute() error {
	return RootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.postforge.yaml)")
	RootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "", "completion provider (openai, gemini, or anthropic)")
	RootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "model name (provider default if empty)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	RootCmd.AddCommand(generateCmd)
	RootCmd.AddCommand(providersCmd)
	RootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".postforge")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of postforge",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("postforge v0.1.0")
	},
}
