package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eodrift/satstore/internal/storage"
)

func newListCmd() *cobra.Command {
	var (
		glob      string
		recursive bool
	)

	cmd := &cobra.Command{
		Use:   "ls <prefix>",
		Short: "List objects under a prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(cmd.Context())
			if err != nil {
				return err
			}

			keys, err := engine.ListFiles(cmd.Context(), args[0], storage.ListOptions{
				Glob:      glob,
				Recursive: recursive,
			})
			if err != nil {
				return err
			}
			for _, key := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&glob, "glob", "", "Glob pattern applied to results (e.g. \"*.SAFE\")")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "List every object under the prefix, not just immediate children")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <prefix>",
		Short: "Delete every object under a prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(cmd.Context())
			if err != nil {
				return err
			}
			return engine.Delete(cmd.Context(), args[0])
		},
	}
}

func newExistsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exists <path>",
		Short: "Check whether a path exists as an object or prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(cmd.Context())
			if err != nil {
				return err
			}

			ok, err := engine.Exists(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}
}

func newCopyCmd() *cobra.Command {
	var (
		dstContainer string
		tier         string
		rehydrate    string
		timeoutSecs  int
	)

	cmd := &cobra.Command{
		Use:   "cp <src-path> <dst-path>",
		Short: "Server-side copy with an optional destination tier",
		Long: `Start a server-side copy of one object, optionally into a different
container and storage tier. The command returns once the copy has been
started; copies out of the archive tier rehydrate asynchronously and the
destination is not readable until rehydration completes.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(cmd.Context())
			if err != nil {
				return err
			}

			opts := storage.CopyOptions{
				DstContainer:      dstContainer,
				Tier:              storage.AccessTier(tier),
				RehydratePriority: storage.RehydratePriority(rehydrate),
				Timeout:           time.Duration(timeoutSecs) * time.Second,
			}
			return engine.Copy(cmd.Context(), args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&dstContainer, "dst-container", "", "Destination container (default: same container)")
	cmd.Flags().StringVar(&tier, "tier", "", "Destination tier: hot, cool or archive")
	cmd.Flags().StringVar(&rehydrate, "rehydrate", "", "Rehydrate priority for archived sources: standard or high")
	cmd.Flags().IntVar(&timeoutSecs, "timeout", 0, "Copy-start timeout in seconds")
	return cmd
}

func newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <src-path> <dst-path>",
		Short: "Rename a single object (backend support required)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(cmd.Context())
			if err != nil {
				return err
			}
			return engine.Rename(cmd.Context(), args[0], args[1])
		},
	}
}
