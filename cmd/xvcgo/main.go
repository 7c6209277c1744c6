// Command xvcgo runs xvc command lines through the Go binding.
//
//	xvcgo run file track data/
//	xvcgo run -- -vv pipeline run
//	xvcgo parse storage new s3 --name b --bucket-name my-bucket
//	xvcgo version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xvc-go/xvcgo/xvc"
)

var settingsPath string

var rootCmd = &cobra.Command{
	Use:   "xvcgo",
	Short: "Run xvc commands through the Go binding",
	Long: `xvcgo runs xvc command lines the way Go programs using the xvc
package do: the line is parsed with the binding's grammar, run with the
xvc binary, and followed by the binding's git automation.

Binding settings are read from $XDG_CONFIG_HOME/xvcgo/config.yaml, the
file given with --settings, and XVCGO_* environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Binding settings file (default $XDG_CONFIG_HOME/xvcgo/config.yaml)")
	rootCmd.Version = xvc.Version()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openSession builds a session from the settings file.
func openSession() (*xvc.Session, error) {
	cfg, opts, err := xvc.LoadSettings(settingsPath)
	if err != nil {
		return nil, err
	}
	return xvc.New(cfg, opts...)
}
