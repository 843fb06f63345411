package showroom

import (
	"fmt"
	"os"
)

// debugLog prints timing and triangle stats to stderr.
func (s *Scene) debugLog(stats renderStats) {
	if !s.debug {
		return
	}
	total := stats.collectTime + stats.sortTime + stats.submitTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[showroom] collect: %v | sort: %v | submit: %v | total: %v\n",
		stats.collectTime, stats.sortTime, stats.submitTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[showroom] meshes: %d | triangles: %d | culled: %d\n",
		stats.meshes, stats.triangles, stats.culled)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode; release builds skip it.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("showroom debug: %s on disposed node %q", op, n.Name))
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 64

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[showroom] warning: tree depth %d exceeds %d (node %q)\n",
			depth, debugMaxTreeDepth, n.Name)
	}
}

// debugf prints a diagnostic line when debug mode is on.
func debugf(format string, args ...any) {
	if !globalDebug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[showroom] "+format+"\n", args...)
}
