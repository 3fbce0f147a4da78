package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/benhg/multi-layer-page-table-sim/cmd/mmusim/scenario"
	"github.com/benhg/multi-layer-page-table-sim/kernel/mem/vmm"
)

var (
	invalidateVA   uint64
	invalidateSize string
	invalidateAll  bool
)

var invalidateCmd = &cobra.Command{
	Use:   "invalidate <scenario-file>",
	Short: "demonstrate the invalidation interface against a scenario's page tables",
	Long: `invalidate loads a scenario, installs its page tables, issues every
translation the scenario lists (to warm the TLBs), then applies a single
invalidate-by-page or invalidate-all call and prints TLB occupancy before
and after so the effect is visible.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := scenario.Load(args[0])
		if err != nil {
			return err
		}
		ctx, err := scenario.Build(s)
		if err != nil {
			return errors.Wrap(err, "building page tables")
		}

		for _, tr := range s.Translations {
			req, err := tr.ToRequest()
			if err != nil {
				return err
			}
			ctx.Translate(req)
		}

		fmt.Printf("before: %v\n", ctx.TLBOccupancy())

		if invalidateAll {
			ctx.InvalidateAll()
		} else {
			size, ok := vmm.ParsePageSize(invalidateSize)
			if !ok {
				return errors.Errorf("unknown page size %q", invalidateSize)
			}
			ctx.InvalidateByPage(vmm.VirtualAddr(invalidateVA), size)
		}

		fmt.Printf("after:  %v\n", ctx.TLBOccupancy())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(invalidateCmd)
	invalidateCmd.Flags().Uint64Var(&invalidateVA, "va", 0, "virtual address to invalidate")
	invalidateCmd.Flags().StringVar(&invalidateSize, "size", "4k", "page size to invalidate (4k, 2m, 1g)")
	invalidateCmd.Flags().BoolVar(&invalidateAll, "all", false, "invalidate every TLB entry instead of one page")
}
