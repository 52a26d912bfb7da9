package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/npillmayer/ost"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	fillCount int
	fillStart uint64
	fillAt    int
	readers   int
)

var fillCmd = &cobra.Command{
	Use:   "fill <file>",
	Short: "insert a run of increasing element references",
	Long: `
Insert --count element references start, start+1, ... into the tree stored in
file, beginning at position --at (default: append). The file is created if it
does not exist. Either all insertions are recorded in the header or none.
`,
	Args: cobra.ExactArgs(1),
	RunE: runFill,
}

var removeCmd = &cobra.Command{
	Use:   "remove <file> <index>...",
	Short: "remove elements by position",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runRemove,
}

var getCmd = &cobra.Command{
	Use:   "get <file> <index>...",
	Short: "print elements by position",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runGet,
}

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "print the node structure of the tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

var dotCmd = &cobra.Command{
	Use:   "dot <file>",
	Short: "print the page graph in Graphviz DOT format",
	Args:  cobra.ExactArgs(1),
	RunE:  runDot,
}

var verifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "check tree invariants and positional reads",
	Long: `
Check the structural invariants of the tree, then read every element by
position with --readers concurrent readers and compare against an in-order
walk.
`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	fillCmd.Flags().IntVarP(&fillCount, "count", "n", 100, "number of elements to insert")
	fillCmd.Flags().Uint64Var(&fillStart, "start", 0, "first element reference")
	fillCmd.Flags().IntVar(&fillAt, "at", -1, "insert position (-1 appends)")
	verifyCmd.Flags().IntVarP(&readers, "readers", "r", 4, "number of concurrent readers")
}

// withSession runs fn on the tree file and reports I/O statistics if asked to.
func withSession(cmd *cobra.Command, path string, mode openMode, fn func(s *session) error) error {
	s, err := openSession(path, mode)
	if err != nil {
		return err
	}
	defer s.close()
	if err := fn(s); err != nil {
		return err
	}
	if showIO {
		return s.writeIOStats(cmd.OutOrStdout())
	}
	return nil
}

func runFill(cmd *cobra.Command, args []string) error {
	return withSession(cmd, args[0], create, func(s *session) error {
		pos := fillAt
		if pos < 0 {
			pos = s.tree.Size()
		}
		if err := s.alloc.BeginPending(); err != nil {
			return err
		}
		start := s.tree.Root()
		for i := 0; i < fillCount; i++ {
			if err := s.tree.Insert(pos+i, ost.ElementRef(fillStart+uint64(i))); err != nil {
				_ = s.alloc.RollbackPending()
				_ = s.tree.SetRoot(start)
				return err
			}
		}
		if err := s.alloc.CommitPending(); err != nil {
			return err
		}
		if err := s.commit(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "size %d root %s\n", s.tree.Size(), s.tree.Root())
		return nil
	})
}

func runRemove(cmd *cobra.Command, args []string) error {
	indexes, err := parseIndexes(args[1:])
	if err != nil {
		return err
	}
	return withSession(cmd, args[0], writable, func(s *session) error {
		for _, i := range indexes {
			ref, err := s.tree.Remove(i)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d at %d\n", ref, i)
		}
		return s.commit()
	})
}

func runGet(cmd *cobra.Command, args []string) error {
	indexes, err := parseIndexes(args[1:])
	if err != nil {
		return err
	}
	return withSession(cmd, args[0], readOnly, func(s *session) error {
		for _, i := range indexes {
			ref, err := s.tree.Get(i)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d: %d\n", i, ref)
		}
		return nil
	})
}

func runDump(cmd *cobra.Command, args []string) error {
	return withSession(cmd, args[0], readOnly, func(s *session) error {
		d := newDumper(cmd.OutOrStdout(), lineWidth())
		return d.dump(s.tree.Engine(), s.tree.Root())
	})
}

func runDot(cmd *cobra.Command, args []string) error {
	return withSession(cmd, args[0], readOnly, func(s *session) error {
		return s.tree.Engine().WriteDot(s.tree.Root(), cmd.OutOrStdout())
	})
}

func runVerify(cmd *cobra.Command, args []string) error {
	return withSession(cmd, args[0], readOnly, func(s *session) error {
		eng, root := s.tree.Engine(), s.tree.Root()
		if err := eng.Check(root); err != nil {
			return err
		}
		st, err := eng.Stats(root)
		if err != nil {
			return err
		}
		walked, err := eng.Elements(root)
		if err != nil {
			return err
		}
		n := readers
		if n < 1 {
			n = 1
		}
		g, ctx := errgroup.WithContext(context.Background())
		for r := 0; r < n; r++ {
			g.Go(func() error {
				for i := r; i < len(walked); i += n {
					if err := ctx.Err(); err != nil {
						return err
					}
					ref, err := eng.GetAt(root, i)
					if err != nil {
						return err
					}
					if ref != walked[i] {
						return errors.Newf("position %d: read %d, walk found %d", i, ref, walked[i])
					}
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(),
			"ok: %d elements, height %d, %d internal nodes, %d leaves (%d empty, %d under-full)\n",
			st.Elements, st.Height, st.Internals, st.Leaves, st.EmptyLeaves, st.UnderfullLeaves)
		return nil
	})
}

func parseIndexes(args []string) ([]int, error) {
	indexes := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, errors.Wrapf(err, "index %q", a)
		}
		indexes[i] = v
	}
	return indexes, nil
}
