package main

import (
	"github.com/spf13/cobra"

	"github.com/guttosm/scaffold-service/internal/domain/dto"
)

func (c *cli) planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "plan",
		Short:   "Print the layout and piece requirements for a facade",
		Example: "  scaffoldctl plan --height 4 --length 4.14 --width 0.73",
		Args:    cobra.NoArgs,
		PreRunE: c.bindFlags,
		RunE: func(_ *cobra.Command, _ []string) error {
			engine, err := c.engine()
			if err != nil {
				return err
			}
			height, length, width := c.dimensions()
			result, err := engine.Allocate(height, length, width, nil)
			if err != nil {
				return err
			}

			resp := dto.NewPlanResponse(result)
			if c.output() == outputJSON {
				return writeJSON(c.out, resp)
			}
			return writePlanText(c.out, resp)
		},
	}
	addDimensionFlags(cmd)
	return cmd
}
