// Package cli implements the s3dfs command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd returns the root cobra command for the s3dfs CLI.
// Command results are written to stdout, logs and errors to stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "s3dfs",
		Short:         "hdfs dfs like commands for OSS, S3 and local storage",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	v := viper.New()
	addGlobalFlags(cmd, v)

	cmd.AddCommand(newLsCmd(v, stdout, stderr))
	cmd.AddCommand(newGetCmd(v, stdout, stderr))
	cmd.AddCommand(newPutCmd(v, stdout, stderr))
	cmd.AddCommand(newDuCmd(v, stdout, stderr))
	cmd.AddCommand(newMkdirCmd(v, stdout, stderr))
	cmd.AddCommand(newVersionCmd(stdout))

	return cmd
}

// Execute runs the CLI with the process stdio and arguments.
// It returns the exit code of the process.
func Execute(ctx context.Context) int {
	root := NewRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
