package services

import (
	"merchconsole/internal/models"
)

// DefaultPathSeparator joins category names in display paths
const DefaultPathSeparator = " > "

// CategoryTreeIndex is a read-only lookup over a category forest.
// The forest itself stays owned by the caller and is never modified.
type CategoryTreeIndex struct {
	roots     []*models.Category
	separator string
	links     *forestLinks
	flat      []models.FlatCategory
	byID      map[string]int
}

// NewCategoryTreeIndex flattens the forest once and keeps the original
// roots for node lookups.
func NewCategoryTreeIndex(roots []*models.Category, separator string) *CategoryTreeIndex {
	if separator == "" {
		separator = DefaultPathSeparator
	}
	links := linkForest(roots)
	flat := links.flatten(roots, separator)
	byID := make(map[string]int, len(flat))
	for i, fc := range flat {
		if _, seen := byID[fc.ID]; !seen {
			byID[fc.ID] = i
		}
	}
	return &CategoryTreeIndex{roots: roots, separator: separator, links: links, flat: flat, byID: byID}
}

// forestLinks resolves parent/child links for sources that populate either
// Children or ParentID. Populated Children win; otherwise the children of a
// node are the nodes whose ParentID names it, in pre-order.
type forestLinks struct {
	ids      map[string]struct{}
	byParent map[string][]*models.Category
}

func linkForest(roots []*models.Category) *forestLinks {
	links := &forestLinks{
		ids:      make(map[string]struct{}),
		byParent: make(map[string][]*models.Category),
	}
	walkChildren(roots, func(c *models.Category) bool {
		links.ids[c.ID] = struct{}{}
		if !c.IsRoot() && *c.ParentID != c.ID {
			links.byParent[*c.ParentID] = append(links.byParent[*c.ParentID], c)
		}
		return true
	})
	return links
}

func (l *forestLinks) childrenOf(c *models.Category) []*models.Category {
	if len(c.Children) > 0 {
		return c.Children
	}
	return l.byParent[c.ID]
}

// hasKnownParent reports whether the node hangs below another node of the forest
func (l *forestLinks) hasKnownParent(c *models.Category) bool {
	if c.IsRoot() || *c.ParentID == c.ID {
		return false
	}
	_, ok := l.ids[*c.ParentID]
	return ok
}

type flattenFrame struct {
	node       *models.Category
	parentID   *string
	parentPath string
	depth      int
}

// BuildFlatCategories walks every node once, depth-first in sibling order,
// using an explicit stack so depth is not bounded by the goroutine stack.
func BuildFlatCategories(roots []*models.Category, separator string) []models.FlatCategory {
	if separator == "" {
		separator = DefaultPathSeparator
	}
	return linkForest(roots).flatten(roots, separator)
}

func (l *forestLinks) flatten(roots []*models.Category, separator string) []models.FlatCategory {
	var out []models.FlatCategory
	visited := make(map[*models.Category]struct{})

	var stack []flattenFrame
	run := func() {
		for len(stack) > 0 {
			frame := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if _, ok := visited[frame.node]; ok {
				continue
			}
			visited[frame.node] = struct{}{}

			path := frame.node.Name
			if frame.depth > 0 {
				path = frame.parentPath + separator + frame.node.Name
			}
			out = append(out, models.FlatCategory{
				ID:       frame.node.ID,
				Name:     frame.node.Name,
				Path:     path,
				ParentID: frame.parentID,
				Depth:    frame.depth,
			})

			id := frame.node.ID
			children := l.childrenOf(frame.node)
			for i := len(children) - 1; i >= 0; i-- {
				if children[i] != nil {
					stack = append(stack, flattenFrame{node: children[i], parentID: &id, parentPath: path, depth: frame.depth + 1})
				}
			}
		}
	}

	for i := len(roots) - 1; i >= 0; i-- {
		if roots[i] != nil && !l.hasKnownParent(roots[i]) {
			stack = append(stack, flattenFrame{node: roots[i]})
		}
	}
	run()

	// Nodes whose parent never reached them (a parent with other populated
	// Children, or a ParentID cycle) are kept as roots.
	for _, r := range roots {
		if r == nil {
			continue
		}
		if _, ok := visited[r]; !ok {
			stack = append(stack, flattenFrame{node: r})
			run()
		}
	}
	return out
}

// walkChildren visits nodes reachable through Children in pre-order until fn returns false
func walkChildren(roots []*models.Category, fn func(*models.Category) bool) {
	visited := make(map[*models.Category]struct{})
	stack := make([]*models.Category, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		if roots[i] != nil {
			stack = append(stack, roots[i])
		}
	}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := visited[node]; ok {
			continue
		}
		visited[node] = struct{}{}
		if !fn(node) {
			return
		}
		for i := len(node.Children) - 1; i >= 0; i-- {
			if node.Children[i] != nil {
				stack = append(stack, node.Children[i])
			}
		}
	}
}

// Flat returns a copy of the flattened index in pre-order
func (idx *CategoryTreeIndex) Flat() []models.FlatCategory {
	out := make([]models.FlatCategory, len(idx.flat))
	copy(out, idx.flat)
	return out
}

// Separator returns the path separator of the index
func (idx *CategoryTreeIndex) Separator() string {
	return idx.separator
}

// FindByID returns the first node with the given id in pre-order, or nil
func (idx *CategoryTreeIndex) FindByID(id string) *models.Category {
	var found *models.Category
	walkChildren(idx.roots, func(c *models.Category) bool {
		if c.ID == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// ChildrenOf returns the populated children of the node, falling back to
// every node whose ParentID points at it for sources that only set ParentID.
func (idx *CategoryTreeIndex) ChildrenOf(id string) []*models.Category {
	var children []*models.Category
	if node := idx.FindByID(id); node != nil {
		children = idx.links.childrenOf(node)
	} else {
		children = idx.links.byParent[id]
	}
	if len(children) == 0 {
		return nil
	}
	out := make([]*models.Category, len(children))
	copy(out, children)
	return out
}

// PathOf returns the display path of a category
func (idx *CategoryTreeIndex) PathOf(id string) (string, bool) {
	i, ok := idx.byID[id]
	if !ok {
		return "", false
	}
	return idx.flat[i].Path, true
}

// Ancestors returns the root-to-self chain of a category, empty if unknown
func (idx *CategoryTreeIndex) Ancestors(id string) []models.FlatCategory {
	var chain []models.FlatCategory
	current := id
	// A forest cannot have a chain longer than its node count.
	for steps := 0; steps <= len(idx.flat); steps++ {
		i, ok := idx.byID[current]
		if !ok {
			break
		}
		chain = append(chain, idx.flat[i])
		parent := idx.flat[i].ParentID
		if parent == nil || *parent == "" {
			break
		}
		current = *parent
	}
	for l, r := 0, len(chain)-1; l < r; l, r = l+1, r-1 {
		chain[l], chain[r] = chain[r], chain[l]
	}
	return chain
}

// Descendants returns the subtree below a category in pre-order, excluding itself
func (idx *CategoryTreeIndex) Descendants(id string) []models.FlatCategory {
	i, ok := idx.byID[id]
	if !ok {
		return nil
	}
	depth := idx.flat[i].Depth
	var out []models.FlatCategory
	for j := i + 1; j < len(idx.flat) && idx.flat[j].Depth > depth; j++ {
		out = append(out, idx.flat[j])
	}
	return out
}

// TruncatePath keeps the breadcrumb up to and including index
func TruncatePath(chain []*models.Category, index int) []*models.Category {
	if index < 0 {
		return []*models.Category{}
	}
	if index >= len(chain) {
		index = len(chain) - 1
	}
	out := make([]*models.Category, index+1)
	copy(out, chain[:index+1])
	return out
}
