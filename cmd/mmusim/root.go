package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	log     = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "mmusim",
	Short: "mmusim drives the multi-layer page table simulator from scenario files",
	Long: `mmusim is a demonstration and debugging harness around the
multi-layer-page-table-sim core. It loads a scenario file describing page
tables and translation requests, runs them against a vmm.Context, and
reports the result of each translation or invalidation.

It is not the grading test harness for the core library: scenario files
are a convenience fixture format, not a conformance suite.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Fatal("mmusim failed")
	}
}
