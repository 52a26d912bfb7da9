package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/npillmayer/ost"
	"github.com/npillmayer/ost/pagestore"
	"golang.org/x/term"
)

// dumper prints the node structure of a tree, one node per line, indented by
// depth. Lines are cut to the terminal width.
type dumper struct {
	w        io.Writer
	width    int
	internal *color.Color
	leaf     *color.Color
	empty    *color.Color
}

func newDumper(w io.Writer, width int) *dumper {
	return &dumper{
		w:        w,
		width:    width,
		internal: color.New(color.FgBlue),
		leaf:     color.New(color.FgGreen),
		empty:    color.New(color.FgRed),
	}
}

// lineWidth reads the width of the terminal on stdout, if there is one.
func lineWidth() int {
	if term.IsTerminal(1) {
		w, _, err := term.GetSize(1)
		if err == nil && w > 10 {
			return w
		}
	}
	return 100
}

func (d *dumper) dump(eng *ost.Engine, root pagestore.Addr) error {
	if root.IsNil() {
		fmt.Fprintln(d.w, "empty tree")
		return nil
	}
	return d.node(eng, root, 0, 0)
}

func (d *dumper) node(eng *ost.Engine, addr pagestore.Addr, depth int, pos uint64) error {
	n, err := eng.Load(addr)
	if err != nil {
		return err
	}
	indent := strings.Repeat("  ", depth)
	switch node := n.(type) {
	case *ost.Internal:
		line := fmt.Sprintf("%sinternal %s level=%d children=%d count=%d",
			indent, addr, node.Level(), node.NumChildren(), node.ElementCount())
		d.internal.Fprintln(d.w, d.cut(line))
		for i := 0; i < node.NumChildren(); i++ {
			if err := d.node(eng, node.Child(i), depth+1, pos); err != nil {
				return err
			}
			pos += uint64(node.ChildCount(i))
		}
	case *ost.Leaf:
		line := fmt.Sprintf("%sleaf %s @%d n=%d %s", indent, addr, pos, node.Len(), elementRange(node))
		if node.Len() == 0 {
			d.empty.Fprintln(d.w, d.cut(line))
		} else {
			d.leaf.Fprintln(d.w, d.cut(line))
		}
	}
	return nil
}

func (d *dumper) cut(line string) string {
	if d.width > 3 && len(line) > d.width {
		return line[:d.width-3] + "..."
	}
	return line
}

func elementRange(l *ost.Leaf) string {
	switch l.Len() {
	case 0:
		return "[]"
	case 1:
		return fmt.Sprintf("[%d]", l.Element(0))
	}
	return fmt.Sprintf("[%d .. %d]", l.Element(0), l.Element(l.Len()-1))
}
