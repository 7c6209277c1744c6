package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xvc-go/xvcgo/internal/cli"
)

var parseCmd = &cobra.Command{
	Use:   "parse [--] <xvc arguments>...",
	Short: "Print how a command line is parsed, without running it",
	Long: `Parse an xvc command line with the binding's grammar and print the
structured command as YAML. Nothing is executed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parsed, err := cli.NewParser().Parse(append([]string{cli.ProgramName}, args...))
		if err != nil {
			var perr *cli.ParseError
			if errors.As(err, &perr) {
				fmt.Fprint(os.Stderr, perr.Output())
				if perr.Help {
					return nil
				}
			}
			return err
		}

		doc := struct {
			Kind        string   `yaml:"kind"`
			cli.Command `yaml:",inline"`
			Argv        []string `yaml:"argv"`
		}{
			Kind:    parsed.Kind.String(),
			Command: *parsed,
			Argv:    parsed.Argv(),
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	},
}

func init() {
	parseCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(parseCmd)
}
