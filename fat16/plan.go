package fat16

import (
	"github.com/mkhdmenu/atarihd/fsnode"
)

// DirentSize is the size of a single 32-byte FAT directory entry.
const DirentSize = 32

// dirEntryTableSize returns the byte length of a directory's entry table:
// two synthetic entries ("." and "..") plus one per child.
func dirEntryTableSize(dir *fsnode.Node) uint {
	return uint(2+len(dir.Dir.Children)) * DirentSize
}

// nodeSize returns how many bytes of cluster space a node consumes: a
// file's payload length, or a non-root directory's entry-table length.
func nodeSize(n *fsnode.Node) uint {
	if n.IsDir() {
		return dirEntryTableSize(n)
	}
	return uint(len(n.File.Data))
}

// NodePlan records the cluster assignment for one file or non-root
// directory.
type NodePlan struct {
	Node         *fsnode.Node
	StartCluster ClusterID
	ClusterCount uint
}

// Plan is the complete geometry and cluster assignment for one partition,
// ready for serialization.
type Plan struct {
	Geometry Geometry
	Order    []*NodePlan          // depth-first traversal order, root excluded
	ByNode   map[*fsnode.Node]*NodePlan
	FAT      []uint16 // FAT table: index 0..Geometry.TotalClusters+1
}

// collectNodes walks tree in the depth-first, insertion order the spec
// requires for cluster assignment, returning every file and non-root
// directory (never the root itself).
func collectNodes(tree *fsnode.Tree) []*fsnode.Node {
	var nodes []*fsnode.Node
	tree.Walk(func(path string, node *fsnode.Node, depth int) {
		nodes = append(nodes, node)
	})
	return nodes
}

// PlanPartition computes the FAT16 geometry for tree's contents within a
// partition of capacitySectors sectors, then assigns starting clusters to
// every file and non-root directory by depth-first traversal in insertion
// order, per spec §4.3.
func PlanPartition(tree *fsnode.Tree, capacitySectors uint) (*Plan, error) {
	nodes := collectNodes(tree)

	sizes := make([]uint, len(nodes))
	for i, n := range nodes {
		sizes[i] = nodeSize(n)
	}

	geometry, err := PlanGeometry(sizes, capacitySectors)
	if err != nil {
		return nil, err
	}

	alloc := newClusterAllocator(geometry.TotalClusters)
	fat := make([]uint16, geometry.TotalClusters+firstUsableCluster)
	fat[0] = 0xFF00 | uint16(mediaDescriptor)
	fat[1] = endOfChain

	plan := &Plan{
		Geometry: geometry,
		ByNode:   make(map[*fsnode.Node]*NodePlan, len(nodes)),
		FAT:      fat,
	}

	for _, n := range nodes {
		demand := clusterDemand(nodeSize(n), geometry.SectorsPerCluster)
		np := &NodePlan{Node: n}

		if demand > 0 {
			start, allocErr := alloc.allocateRun(demand)
			if allocErr != nil {
				return nil, allocErr
			}
			np.StartCluster = start
			np.ClusterCount = demand
			plan.chainClusters(start, demand)
		}

		plan.Order = append(plan.Order, np)
		plan.ByNode[n] = np
	}

	return plan, nil
}

// chainClusters writes FAT entries linking count contiguous clusters
// starting at start, terminating the chain with the end-of-chain marker.
func (p *Plan) chainClusters(start ClusterID, count uint) {
	for i := uint(0); i < count; i++ {
		idx := uint(start) + i
		if i == count-1 {
			p.FAT[idx] = endOfChain
		} else {
			p.FAT[idx] = uint16(idx) + 1
		}
	}
}
