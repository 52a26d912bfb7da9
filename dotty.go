package ost

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/ost/pagestore"
)

// WriteDot outputs the page graph of the tree at root in Graphviz DOT format
// (for debugging purposes). Leaves are labelled with their element count and
// the position of their first element, internal nodes with their total count.
func (e *Engine) WriteDot(root pagestore.Addr, w io.Writer) error {
	var nodelist, edgelist strings.Builder
	pos := uint64(0)
	err := e.dotNode(root, &pos, &nodelist, &edgelist)
	if err != nil {
		tracer().Errorf("ost DOT: %s", err.Error())
		return err
	}
	io.WriteString(w, "strict digraph {\n")
	io.WriteString(w, "\tnode [fontname=Arial,fontsize=12];\n")
	io.WriteString(w, nodelist.String())
	io.WriteString(w, edgelist.String())
	_, err = io.WriteString(w, "}\n")
	return err
}

func (e *Engine) dotNode(addr pagestore.Addr, pos *uint64, nodes, edges *strings.Builder) error {
	if addr.IsNil() {
		fmt.Fprintf(nodes, "\"%s\" %s;\n", addr, emptyNode())
		return nil
	}
	n, err := e.load(addr)
	if err != nil {
		return err
	}
	switch node := n.(type) {
	case *Leaf:
		label := fmt.Sprintf("%d @%d", node.Len(), *pos)
		fmt.Fprintf(nodes, "\"%s\" [label=\"%s\"%s];\n", addr, label, nodeDotStyles(true, node.Len() == 0))
		*pos += node.ElementCount()
	case *Internal:
		fmt.Fprintf(nodes, "\"%s\" [label=%d%s];\n", addr, node.ElementCount(), nodeDotStyles(false, false))
		for i := 0; i < node.NumChildren(); i++ {
			fmt.Fprintf(edges, "\"%s\" -> \"%s\" [label=%d];\n", addr, node.Child(i), node.ChildCount(i))
			if err := e.dotNode(node.Child(i), pos, nodes, edges); err != nil {
				return err
			}
		}
	}
	return nil
}

func emptyNode() string {
	return "[label=\"\",color=black,shape=circle,fixedsize=true,width=.4]"
}

func nodeDotStyles(isleaf bool, empty bool) string {
	s := ",style=filled"
	if isleaf {
		s += ",shape=box"
		if empty {
			s += ",fillcolor=\"#FFCCAA\""
		}
	} else {
		s += ",color=black,fillcolor=\"#a3d7e4\""
		s += ",shape=circle"
	}
	return s
}
