package cmd

import (
	"fmt"
	"github.com/ValentinKolb/chunkDB/cmd/bench"
	"github.com/ValentinKolb/chunkDB/cmd/demo"
	"github.com/ValentinKolb/chunkDB/cmd/util"
	"github.com/spf13/cobra"
	"os"
)

const (
	Version = "1.0.2"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "chunkdb",
		Short: "chunked storage engine for lattice data",
		Long: fmt.Sprintf(`chunkDB (v%s)

A chunked storage engine for values on a 2D/3D integer lattice,
with transparent compression and bounded-memory caching.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of chunkDB",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("chunkDB v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(bench.BenchCmd)
	RootCmd.AddCommand(demo.DemoCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "engine"
	RootCmd.PersistentFlags().String(key, "birch", util.WrapString("cache engine to use (birch, flat)"))
	key = "codec"
	RootCmd.PersistentFlags().String(key, "snappy", util.WrapString("compression codec to use (raw, snappy, s2, lz4, zstd)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "info", util.WrapString("log level (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
