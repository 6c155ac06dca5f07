package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/guttosm/scaffold-service/internal/domain/dto"
)

var errStockFileRequired = errors.New("--stock is required")

func (c *cli) allocateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Match the bill of materials against a stock snapshot",
		Long: `allocate reads stock items from a YAML or JSON file and prints the pieces
that would be drawn, the total weight and any shortfalls. Nothing is persisted.`,
		Example: "  scaffoldctl allocate --height 4 --length 4.14 --width 0.73 --stock stock.yaml",
		Args:    cobra.NoArgs,
		PreRunE: c.bindFlags,
		RunE: func(_ *cobra.Command, _ []string) error {
			path := c.v.GetString("stock")
			if path == "" {
				return errStockFileRequired
			}
			items, err := loadStockFile(path)
			if err != nil {
				return err
			}

			engine, err := c.engine()
			if err != nil {
				return err
			}
			height, length, width := c.dimensions()
			result, err := engine.Allocate(height, length, width, items)
			if err != nil {
				return err
			}

			resp := dto.NewScaffoldResponse(result, false)
			if c.output() == outputJSON {
				return writeJSON(c.out, resp)
			}
			return writeAllocationText(c.out, resp)
		},
	}
	addDimensionFlags(cmd)
	cmd.Flags().String("stock", "", "stock snapshot file (.yaml, .yml or .json)")
	return cmd
}
