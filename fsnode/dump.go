package fsnode

import (
	"fmt"
	"io"
	"strings"

	"github.com/mkhdmenu/atarihd/dostime"
)

// Dump pretty-prints the tree to w, one line per node, indenting by depth
// and showing file size plus the decoded timestamp for files.
//
// Grounded on the original mkhdmenu.py's dump_trees()/dump_tree(): a plain
// indented listing used for debugging a build, not a full directory
// listing format.
func (t *Tree) Dump(w io.Writer) {
	t.Walk(func(path string, node *Node, depth int) {
		indent := strings.Repeat("  ", depth)
		if node.IsDir() {
			fmt.Fprintf(w, "%s%s\\\n", indent, node.Name)
			return
		}
		ts := dostime.UnpackTime(node.Date, node.Time)
		fmt.Fprintf(w, "%s%s  %8d  %s\n", indent, node.Name, len(node.File.Data), ts.Format("02.01.2006 15:04:05"))
	})
}
