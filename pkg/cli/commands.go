package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sgaunet/s3dfs/pkg/dfs"
)

// Version is set at build time with -ldflags "-X github.com/sgaunet/s3dfs/pkg/cli.Version=..."
var Version = "development"

func newLsCmd(v *viper.Viper, stdout, stderr io.Writer) *cobra.Command {
	var long, recursive bool
	cmd := &cobra.Command{
		Use:   "ls [-l] [-R] [path]",
		Short: "List the entries under a path",
		Args:  cobra.MaximumNArgs(1),
		RunE: runE(v, stdout, stderr, func(ctx context.Context, c *dfs.Client, args []string) error {
			path := "/"
			if len(args) == 1 {
				path = args[0]
			}
			return c.List(ctx, path, long, recursive)
		}),
	}
	cmd.Flags().BoolVarP(&long, "long", "l", false, "Show kind, size and modification time")
	cmd.Flags().BoolVarP(&recursive, "recursive", "R", false, "List subdirectories recursively")
	return cmd
}

func newGetCmd(v *viper.Viper, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "get <remote> <local>",
		Short: "Download a remote file or directory tree into a local directory",
		Args:  cobra.ExactArgs(2),
		RunE: runE(v, stdout, stderr, func(ctx context.Context, c *dfs.Client, args []string) error {
			return c.Get(ctx, args[0], args[1])
		}),
	}
}

func newPutCmd(v *viper.Viper, stdout, stderr io.Writer) *cobra.Command {
	var recursive bool
	cmd := &cobra.Command{
		Use:   "put [-r] <local> <remote>",
		Short: "Upload a local file, or a directory with -r, under an existing remote directory",
		Args:  cobra.ExactArgs(2),
		RunE: runE(v, stdout, stderr, func(ctx context.Context, c *dfs.Client, args []string) error {
			return c.Put(ctx, args[0], args[1], recursive)
		}),
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Upload a directory tree")
	return cmd
}

func newDuCmd(v *viper.Viper, stdout, stderr io.Writer) *cobra.Command {
	var summary bool
	cmd := &cobra.Command{
		Use:   "du [-s] [path]",
		Short: "Show the space used under a path",
		Args:  cobra.MaximumNArgs(1),
		RunE: runE(v, stdout, stderr, func(ctx context.Context, c *dfs.Client, args []string) error {
			path := "/"
			if len(args) == 1 {
				path = args[0]
			}
			return c.DiskUsage(ctx, path, summary)
		}),
	}
	cmd.Flags().BoolVarP(&summary, "summary", "s", false, "Print only the total")
	return cmd
}

func newMkdirCmd(v *viper.Viper, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a directory",
		Args:  cobra.ExactArgs(1),
		RunE: runE(v, stdout, stderr, func(ctx context.Context, c *dfs.Client, args []string) error {
			return c.Mkdir(ctx, args[0])
		}),
	}
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(stdout, Version)
		},
	}
}
