package ost

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/npillmayer/ost/pagestore"
)

// TestEngineScript runs testdata/engine. Commands work on named versions; the
// version "empty" is the empty tree.
//
//	append v=<name> n=<count> [from=<name>] [start=<ref>]
//	insert from=<name> to=<name> pos=<i> ref=<ref>
//	remove from=<name> to=<name> pos=<i>
//	remove-front from=<name> to=<name> n=<count>
//	get v=<name> pos=<i>
//	show v=<name>
//	shape v=<name>
//	stats v=<name>
//	check v=<name>
func TestEngineScript(t *testing.T) {
	eng, _ := newTestEngine(t)
	versions := map[string]pagestore.Addr{"empty": pagestore.NoPage}
	lookup := func(t *testing.T, d *datadriven.TestData, key string) pagestore.Addr {
		var name string
		d.ScanArgs(t, key, &name)
		root, ok := versions[name]
		if !ok {
			d.Fatalf(t, "unknown version %q", name)
		}
		return root
	}
	sizeLine := func(root pagestore.Addr) string {
		n, err := eng.SizeAt(root)
		if err != nil {
			return err.Error()
		}
		return fmt.Sprintf("size %d", n)
	}

	datadriven.RunTest(t, "testdata/engine", func(t *testing.T, d *datadriven.TestData) string {
		switch d.Cmd {
		case "append":
			var name string
			var n, start int
			d.ScanArgs(t, "v", &name)
			d.ScanArgs(t, "n", &n)
			root := pagestore.NoPage
			if d.HasArg("from") {
				root = lookup(t, d, "from")
			}
			if d.HasArg("start") {
				d.ScanArgs(t, "start", &start)
			}
			size, err := eng.SizeAt(root)
			if err != nil {
				return err.Error()
			}
			for i := 0; i < n; i++ {
				if root, err = eng.InsertAt(root, size+i, ElementRef(start+i)); err != nil {
					return err.Error()
				}
			}
			versions[name] = root
			return sizeLine(root)

		case "insert":
			root := lookup(t, d, "from")
			var to string
			var pos, ref int
			d.ScanArgs(t, "to", &to)
			d.ScanArgs(t, "pos", &pos)
			d.ScanArgs(t, "ref", &ref)
			newRoot, err := eng.InsertAt(root, pos, ElementRef(ref))
			if err != nil {
				return err.Error()
			}
			versions[to] = newRoot
			return sizeLine(newRoot)

		case "remove":
			root := lookup(t, d, "from")
			var to string
			var pos int
			d.ScanArgs(t, "to", &to)
			d.ScanArgs(t, "pos", &pos)
			newRoot, removed, err := eng.RemoveAt(root, pos)
			if err != nil {
				return err.Error()
			}
			versions[to] = newRoot
			return fmt.Sprintf("removed %d\n%s", removed, sizeLine(newRoot))

		case "remove-front":
			root := lookup(t, d, "from")
			var to string
			var n int
			d.ScanArgs(t, "to", &to)
			d.ScanArgs(t, "n", &n)
			var err error
			for i := 0; i < n; i++ {
				if root, _, err = eng.RemoveAt(root, 0); err != nil {
					return err.Error()
				}
			}
			versions[to] = root
			return sizeLine(root)

		case "get":
			root := lookup(t, d, "v")
			var pos int
			d.ScanArgs(t, "pos", &pos)
			ref, err := eng.GetAt(root, pos)
			if err != nil {
				return err.Error()
			}
			return fmt.Sprintf("%d", ref)

		case "show":
			elems, err := eng.Elements(lookup(t, d, "v"))
			if err != nil {
				return err.Error()
			}
			return fmt.Sprint(elems)

		case "shape":
			root := lookup(t, d, "v")
			if root.IsNil() {
				return "empty"
			}
			var b strings.Builder
			if err := writeShape(eng, root, 0, &b); err != nil {
				return err.Error()
			}
			return b.String()

		case "stats":
			st, err := eng.Stats(lookup(t, d, "v"))
			if err != nil {
				return err.Error()
			}
			return fmt.Sprintf("height=%d internals=%d leaves=%d empty=%d underfull=%d elements=%d",
				st.Height, st.Internals, st.Leaves, st.EmptyLeaves, st.UnderfullLeaves, st.Elements)

		case "check":
			if err := eng.Check(lookup(t, d, "v")); err != nil {
				return err.Error()
			}
			return "ok"

		default:
			return fmt.Sprintf("unknown command: %s", d.Cmd)
		}
	})
}

func writeShape(eng *Engine, addr pagestore.Addr, depth int, b *strings.Builder) error {
	n, err := eng.Load(addr)
	if err != nil {
		return err
	}
	indent := strings.Repeat("  ", depth)
	switch node := n.(type) {
	case *Leaf:
		fmt.Fprintf(b, "%sleaf %d\n", indent, node.Len())
	case *Internal:
		fmt.Fprintf(b, "%sinternal level=%d count=%d\n", indent, node.Level(), node.ElementCount())
		for i := 0; i < node.NumChildren(); i++ {
			if err := writeShape(eng, node.Child(i), depth+1, b); err != nil {
				return err
			}
		}
	}
	return nil
}
