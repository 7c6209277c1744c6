package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xvc-go/xvcgo/xvc"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the binding and engine versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("xvcgo %s", xvc.Version())
		if xvc.BuildCommit != "" {
			fmt.Printf(" (%s)", xvc.BuildCommit)
		}
		fmt.Println()

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		v, err := s.EngineVersion(cmd.Context())
		if err != nil {
			fmt.Printf("xvc engine: unavailable (%v)\n", err)
			return nil
		}
		fmt.Printf("xvc engine %s\n", v)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
