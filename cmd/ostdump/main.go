// Command ostdump creates, fills, inspects and verifies order-statistics trees
// stored in a page file.
//
// The first page of a tree file is a header page holding page size, root
// address, allocator cursor and element count. All other pages are tree nodes.
package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	pageSize   int
	cachePages int
	showIO     bool
)

var rootCmd = &cobra.Command{
	Use:   "ostdump [command] (flags)",
	Short: "order-statistics tree file tool",
	Long: `
Create, fill, inspect and verify paged order-statistics trees stored in a file.
`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			gtrace.CoreTracer = gologadapter.New()
			gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug tracing")
	rootCmd.PersistentFlags().IntVar(&pageSize, "page-size", 4096, "page size for newly created files")
	rootCmd.PersistentFlags().IntVar(&cachePages, "cache-pages", 256, "number of pages kept in the page cache")
	rootCmd.PersistentFlags().BoolVar(&showIO, "io-stats", false, "print page I/O statistics after the command")
	rootCmd.AddCommand(fillCmd, removeCmd, getCmd, dumpCmd, dotCmd, verifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
