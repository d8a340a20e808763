package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eodrift/satstore/internal/products"
)

func newPrefixCmd() *cobra.Command {
	var aoi string

	cmd := &cobra.Command{
		Use:   "prefix <product-filename> <product-type>",
		Short: "Derive the canonical storage prefix for a product filename",
		Long: `Derive the canonical storage prefix for a satellite product
filename. Product types: s2, s3, landsat (case-insensitive).

Examples:
  satstore prefix S2A_MSIL2A_20230115T103421_N0509_R108_T32TQM_20230115T134500.SAFE s2
  satstore prefix S3B_OL_1_EFR____20230115T103421_20230115T103721_x.SEN3 s3 --aoi europe

The printed prefix composes with the transfer commands:
  satstore upload ./product.SAFE "$(satstore prefix product.SAFE s2)"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix, err := products.GetPrefix(args[0], args[1], aoi)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), prefix)
			return nil
		},
	}

	cmd.Flags().StringVar(&aoi, "aoi", "", "Area of interest segment for families that include one")
	return cmd
}
