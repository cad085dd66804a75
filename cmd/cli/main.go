package main

import (
	"fmt"
	"github.com/joho/godotenv"
	"github.com/myrjola/foxtrail/cmd/cli/play"
	"github.com/myrjola/foxtrail/cmd/cli/simulate"
	"github.com/myrjola/foxtrail/internal/errors"
	"github.com/spf13/cobra"
	"io/fs"
	"os"
)

func init() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	rootCmd.AddGroup(play.Group)
	rootCmd.AddCommand(play.Command)
	rootCmd.AddCommand(simulate.Command)
}

var rootCmd = &cobra.Command{
	Use:  "foxtrail-cli",
	Long: `Command line utilities for Foxtrail, a deduction game about catching a thief before the fox gets home`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
