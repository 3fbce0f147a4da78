package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/benhg/multi-layer-page-table-sim/cmd/mmusim/scenario"
	"github.com/benhg/multi-layer-page-table-sim/kernel/mem/vmm"
)

var runCmd = &cobra.Command{
	Use:   "run <scenario-file>",
	Short: "execute every translation and invalidation in a scenario file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScenario(args[0])
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runScenario(path string) error {
	s, err := scenario.Load(path)
	if err != nil {
		return err
	}

	ctx, err := scenario.Build(s)
	if err != nil {
		return errors.Wrap(err, "building page tables")
	}
	log.WithField("mappings", len(s.Mappings)).Debug("page tables installed")

	for i, tr := range s.Translations {
		req, err := tr.ToRequest()
		if err != nil {
			return err
		}

		entry := log.WithFields(logFieldsForRequest(req))
		addr, fault := ctx.Translate(req)
		if fault != nil {
			entry.WithField("fault", fault.Kind.String()).Warn("translation faulted")
			fmt.Printf("[%d] va=%#x pid=%d -> FAULT %s: %s\n", i, req.VA, req.PID, fault.Kind, fault.Message)
			continue
		}

		entry.WithField("phys", fmt.Sprintf("%#x", uint64(addr))).Info("translation succeeded")
		fmt.Printf("[%d] va=%#x pid=%d -> phys=%#x\n", i, req.VA, req.PID, uint64(addr))
	}

	for i, inv := range s.Invalidations {
		if inv.All {
			ctx.InvalidateAll()
			log.WithField("index", i).Debug("invalidated all TLBs")
			continue
		}
		size, ok := vmm.ParsePageSize(inv.Size)
		if !ok {
			return errors.Errorf("invalidation %d: unknown page size %q", i, inv.Size)
		}
		ctx.InvalidateByPage(vmm.VirtualAddr(inv.VA), size)
		log.WithFields(map[string]interface{}{"index": i, "va": fmt.Sprintf("%#x", inv.VA), "size": size.String()}).Debug("invalidated page")
	}

	return nil
}

func logFieldsForRequest(req vmm.Request) map[string]interface{} {
	return map[string]interface{}{
		"pid": req.PID,
		"va":  fmt.Sprintf("%#x", uint64(req.VA)),
	}
}
