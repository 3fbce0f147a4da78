package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/benhg/multi-layer-page-table-sim/cmd/mmusim/scenario"
	"github.com/benhg/multi-layer-page-table-sim/kernel/mem/vmm"
)

var (
	translateVA        uint64
	translatePID       uint32
	translatePrivilege string
	translateRead      bool
	translateWrite     bool
	translateExecute   bool
)

var translateCmd = &cobra.Command{
	Use:   "translate <scenario-file>",
	Short: "issue a single one-shot translation against a scenario's page tables",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := scenario.Load(args[0])
		if err != nil {
			return err
		}
		ctx, err := scenario.Build(s)
		if err != nil {
			return errors.Wrap(err, "building page tables")
		}

		priv, ok := vmm.ParsePrivilege(translatePrivilege)
		if !ok {
			return errors.Errorf("unknown privilege %q", translatePrivilege)
		}

		req := vmm.Request{
			VA:          vmm.VirtualAddr(translateVA),
			PID:         translatePID,
			Privilege:   priv,
			Permissions: vmm.Permissions{Read: translateRead, Write: translateWrite, Execute: translateExecute},
		}

		addr, fault := ctx.Translate(req)
		if fault != nil {
			log.WithField("fault", fault.Kind.String()).Warn("translation faulted")
			fmt.Printf("FAULT %s: %s\n", fault.Kind, fault.Message)
			return nil
		}

		fmt.Printf("phys=%#x\n", uint64(addr))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)
	translateCmd.Flags().Uint64Var(&translateVA, "va", 0, "virtual address to translate")
	translateCmd.Flags().Uint32Var(&translatePID, "pid", 0, "process id to translate under")
	translateCmd.Flags().StringVar(&translatePrivilege, "privilege", "user", "user or supervisor")
	translateCmd.Flags().BoolVar(&translateRead, "read", false, "request read permission")
	translateCmd.Flags().BoolVar(&translateWrite, "write", false, "request write permission")
	translateCmd.Flags().BoolVar(&translateExecute, "execute", false, "request execute permission")
}
