package entity

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// ItemCategory is a node of the hierarchical item classification.
type ItemCategory struct {
	ID          uuid.UUID
	Title       string
	Description string
	ParentID    *uuid.UUID // Nil for root categories.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CategoryNode is an ItemCategory with its children resolved.
type CategoryNode struct {
	ItemCategory
	Children []*CategoryNode
}

// BuildCategoryTree arranges a flat category list into root nodes sorted by
// title. Categories whose parent is missing from the list become roots.
func BuildCategoryTree(categories []*ItemCategory) []*CategoryNode {
	nodes := make(map[uuid.UUID]*CategoryNode, len(categories))
	for _, c := range categories {
		nodes[c.ID] = &CategoryNode{ItemCategory: *c}
	}

	var roots []*CategoryNode
	for _, c := range categories {
		node := nodes[c.ID]
		if c.ParentID != nil {
			if parent, ok := nodes[*c.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)

				continue
			}
		}
		roots = append(roots, node)
	}

	sortNodes(roots)

	return roots
}

func sortNodes(nodes []*CategoryNode) {
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Title < nodes[j].Title })
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}
