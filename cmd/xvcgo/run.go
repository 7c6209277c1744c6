package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xvc-go/xvcgo/xvc"
)

var runCmd = &cobra.Command{
	Use:   "run [--] <xvc arguments>...",
	Short: "Run an xvc command line",
	Long: `Run an xvc command line and print its collected output.

Arguments after the first non-flag are passed to xvc unchanged. Put xvc's
own global flags after "--":

  xvcgo run file list
  xvcgo run -- -vv --skip-git file track data/

The exit status is 1 when the command failed to parse, needed a project,
failed in the engine, or failed in git automation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		tokens := append([]string{"xvc"}, args...)
		res, err := s.Dispatch(cmd.Context(), tokens)
		fmt.Fprint(os.Stdout, render(res.Output, os.Stdout))
		if err != nil {
			return err
		}
		if res.Outcome != xvc.OutcomeOK {
			return errors.New(res.Outcome.String())
		}
		return nil
	},
}

func init() {
	runCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(runCmd)
}
