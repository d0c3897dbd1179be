package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "schedctl",
	Short: "Static DAG-on-VM-fleet scheduler (DCP -> SMGT -> LOTD)",
	Long: `schedctl runs the DCP/SMGT/LOTD scheduling pipeline over a
workflow DAG and a VM fleet described in a JSON document, and prints
or persists the resulting schedule.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.schedctl.yaml)")
	rootCmd.PersistentFlags().Float64("ccr", 1.0, "communication-to-computation ratio override")
	_ = viper.BindPFlag("ccr", rootCmd.PersistentFlags().Lookup("ccr"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".schedctl")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("$HOME")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("SCHEDCTL")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig() // absence of a config file is not an error
}
