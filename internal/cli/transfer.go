package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUploadCmd() *cobra.Command {
	var (
		noOverwrite bool
		retries     int
	)

	cmd := &cobra.Command{
		Use:   "upload <local-path> <remote-prefix>",
		Short: "Upload a file or directory tree to storage",
		Long: `Upload a local file or directory tree under a remote prefix.

Directories are mirrored recursively; a directory root contributes its
name to the destination keys, so "upload ./S2A_... products/2023"
creates keys under products/2023/S2A_.../. Prints the locator of every
uploaded object.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(cmd.Context())
			if err != nil {
				return err
			}

			opts := transferOptions(!noOverwrite, retries)
			locators, err := engine.Upload(cmd.Context(), args[0], args[1], opts)
			if err != nil {
				return err
			}
			for _, loc := range locators {
				fmt.Fprintln(cmd.OutOrStdout(), loc)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noOverwrite, "no-overwrite", false, "Skip objects that already exist remotely")
	cmd.Flags().IntVar(&retries, "retries", 0, "Retries per object after the first failure (0 = config default)")
	return cmd
}

func newDownloadCmd() *cobra.Command {
	var (
		overwrite bool
		retries   int
	)

	cmd := &cobra.Command{
		Use:   "download <prefix> [local-path]",
		Short: "Download everything under a prefix",
		Long: `Download every object under a prefix into a local directory,
recreating the key hierarchy. Existing local files are kept unless
--overwrite is set. The local path defaults to the working directory.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(cmd.Context())
			if err != nil {
				return err
			}

			localPath := "."
			if len(args) == 2 {
				localPath = args[1]
			}

			opts := transferOptions(overwrite, retries)
			return engine.Download(cmd.Context(), args[0], localPath, opts)
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing local files")
	cmd.Flags().IntVar(&retries, "retries", 0, "Retries per object after the first failure (0 = config default)")
	return cmd
}
