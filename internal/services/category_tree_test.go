package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchconsole/internal/models"
	"merchconsole/testhelpers"
)

func TestBuildFlatCategories(t *testing.T) {
	flat := BuildFlatCategories(testhelpers.CategoryForest(), " > ")

	require.Len(t, flat, 5)
	paths := make([]string, 0, len(flat))
	for _, fc := range flat {
		paths = append(paths, fc.Path)
	}
	assert.Equal(t, []string{
		"Home",
		"Home > Kitchen",
		"Home > Kitchen > Coasters",
		"Home > Decor",
		"Garden",
	}, paths)
	assert.Equal(t, 2, flat[2].Depth)
	assert.Equal(t, 0, flat[4].Depth)
}

func TestBuildFlatCategories_ChildPathExtendsParent(t *testing.T) {
	flat := BuildFlatCategories(testhelpers.CategoryForest(), "/")
	byID := make(map[string]models.FlatCategory, len(flat))
	for _, fc := range flat {
		byID[fc.ID] = fc
	}
	for _, fc := range flat {
		if fc.ParentID == nil {
			continue
		}
		parent, ok := byID[*fc.ParentID]
		require.True(t, ok, "parent of %s must be flattened", fc.ID)
		assert.True(t, strings.HasPrefix(fc.Path, parent.Path+"/"), fc.Path)
		assert.Equal(t, parent.Depth+1, fc.Depth)
	}
}

func TestBuildFlatCategories_EmptyAndDefaultSeparator(t *testing.T) {
	assert.Empty(t, BuildFlatCategories(nil, ""))

	flat := BuildFlatCategories(testhelpers.CategoryForest(), "")
	assert.Equal(t, "Home > Kitchen", flat[1].Path)
}

func TestBuildFlatCategories_DeepTree(t *testing.T) {
	const depth = 5000
	root := &models.Category{ID: "n0", Name: "n0"}
	node := root
	for i := 1; i < depth; i++ {
		child := &models.Category{ID: fmt.Sprintf("n%d", i), Name: "x", ParentID: &node.ID}
		node.Children = []*models.Category{child}
		node = child
	}

	flat := BuildFlatCategories([]*models.Category{root}, ">")
	require.Len(t, flat, depth)
	assert.Equal(t, depth-1, flat[depth-1].Depth)
}

func TestBuildFlatCategories_SharedNodeVisitedOnce(t *testing.T) {
	shared := &models.Category{ID: "s", Name: "Shared"}
	a := &models.Category{ID: "a", Name: "A", Children: []*models.Category{shared}}
	b := &models.Category{ID: "b", Name: "B", Children: []*models.Category{shared}}

	flat := BuildFlatCategories([]*models.Category{a, b}, " > ")
	assert.Len(t, flat, 3)
}

func TestCategoryTreeIndex_Lookups(t *testing.T) {
	idx := NewCategoryTreeIndex(testhelpers.CategoryForest(), "")

	t.Run("find by id", func(t *testing.T) {
		c := idx.FindByID("c-coasters")
		require.NotNil(t, c)
		assert.Equal(t, "Coasters", c.Name)
		assert.Nil(t, idx.FindByID("missing"))
	})

	t.Run("children", func(t *testing.T) {
		children := idx.ChildrenOf("c-home")
		require.Len(t, children, 2)
		assert.Equal(t, "c-kitchen", children[0].ID)
		assert.Equal(t, "c-decor", children[1].ID)
		assert.Empty(t, idx.ChildrenOf("c-garden"))
	})

	t.Run("path of", func(t *testing.T) {
		path, ok := idx.PathOf("c-coasters")
		assert.True(t, ok)
		assert.Equal(t, "Home > Kitchen > Coasters", path)
		_, ok = idx.PathOf("missing")
		assert.False(t, ok)
	})

	t.Run("ancestors", func(t *testing.T) {
		chain := idx.Ancestors("c-coasters")
		require.Len(t, chain, 3)
		assert.Equal(t, "c-home", chain[0].ID)
		assert.Equal(t, "c-coasters", chain[2].ID)
		assert.Empty(t, idx.Ancestors("missing"))
	})

	t.Run("descendants", func(t *testing.T) {
		desc := idx.Descendants("c-home")
		require.Len(t, desc, 3)
		assert.Equal(t, "c-kitchen", desc[0].ID)
		assert.Equal(t, "c-decor", desc[2].ID)
		assert.Empty(t, idx.Descendants("c-garden"))
	})

	t.Run("flat is a copy", func(t *testing.T) {
		flat := idx.Flat()
		flat[0].Name = "changed"
		assert.Equal(t, "Home", idx.Flat()[0].Name)
	})
}

func TestCategoryTreeIndex_ChildrenOnlyTree(t *testing.T) {
	// No ParentID anywhere: the structure lives in Children alone
	c := &models.Category{ID: "c", Name: "C"}
	b := &models.Category{ID: "b", Name: "B", Children: []*models.Category{c}}
	a := &models.Category{ID: "a", Name: "A", Children: []*models.Category{b}}

	idx := NewCategoryTreeIndex([]*models.Category{a}, " > ")

	chain := idx.Ancestors("c")
	require.Len(t, chain, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{chain[0].ID, chain[1].ID, chain[2].ID})

	flat := idx.Flat()
	require.Len(t, flat, 3)
	assert.Nil(t, flat[0].ParentID)
	require.NotNil(t, flat[2].ParentID)
	assert.Equal(t, "b", *flat[2].ParentID)
	assert.Nil(t, c.ParentID, "source nodes must not be modified")
}

func TestCategoryTreeIndex_ParentIDOnlyTree(t *testing.T) {
	root := &models.Category{ID: "r", Name: "Root"}
	a := &models.Category{ID: "a", Name: "A", ParentID: testhelpers.Ptr("r")}
	b := &models.Category{ID: "b", Name: "B", ParentID: testhelpers.Ptr("r")}
	leaf := &models.Category{ID: "l", Name: "Leaf", ParentID: testhelpers.Ptr("a")}
	other := &models.Category{ID: "o", Name: "Other"}

	idx := NewCategoryTreeIndex([]*models.Category{leaf, root, a, b, other}, " > ")

	children := idx.ChildrenOf("r")
	require.Len(t, children, 2)
	assert.Equal(t, "a", children[0].ID)
	assert.Equal(t, "b", children[1].ID)

	paths := make([]string, 0, 5)
	for _, fc := range idx.Flat() {
		paths = append(paths, fc.Path)
	}
	assert.Equal(t, []string{"Root", "Root > A", "Root > A > Leaf", "Root > B", "Other"}, paths)

	path, ok := idx.PathOf("l")
	assert.True(t, ok)
	assert.Equal(t, "Root > A > Leaf", path)
	assert.Len(t, idx.Descendants("r"), 3)
	assert.Len(t, idx.Ancestors("l"), 3)
}

func TestCategoryTreeIndex_UnreachableNodesStayRoots(t *testing.T) {
	kept := &models.Category{ID: "k", Name: "Kept", ParentID: testhelpers.Ptr("p")}
	parent := &models.Category{ID: "p", Name: "Parent", Children: []*models.Category{kept}}
	// Points at p, but p lists its children explicitly and omits it
	stray := &models.Category{ID: "s", Name: "Stray", ParentID: testhelpers.Ptr("p")}
	// A ParentID cycle has no natural root
	x := &models.Category{ID: "x", Name: "X", ParentID: testhelpers.Ptr("y")}
	y := &models.Category{ID: "y", Name: "Y", ParentID: testhelpers.Ptr("x")}

	flat := BuildFlatCategories([]*models.Category{parent, stray, x, y}, "/")

	ids := make([]string, 0, len(flat))
	for _, fc := range flat {
		ids = append(ids, fc.ID)
	}
	assert.Equal(t, []string{"p", "k", "s", "x", "y"}, ids)
	assert.Equal(t, "Stray", flat[2].Path)
	assert.Equal(t, "X/Y", flat[4].Path)
}

func TestTruncatePath(t *testing.T) {
	a := &models.Category{ID: "a", Name: "A"}
	b := &models.Category{ID: "b", Name: "B"}
	c := &models.Category{ID: "c", Name: "C"}
	chain := []*models.Category{a, b, c}

	tests := []struct {
		name  string
		index int
		want  []*models.Category
	}{
		{"middle", 1, []*models.Category{a, b}},
		{"first", 0, []*models.Category{a}},
		{"last", 2, chain},
		{"past end", 7, chain},
		{"negative", -1, []*models.Category{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncatePath(chain, tt.index))
		})
	}

	out := TruncatePath(chain, 1)
	out[0] = c
	assert.Same(t, a, chain[0], "input chain must not be modified")
}
