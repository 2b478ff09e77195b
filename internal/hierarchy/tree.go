package hierarchy

import "github.com/templui/keystone/internal/model"

// BuildForest arranges an owner's goals into one tree per Keystone.
// Children are indexed by parent id once, then attached recursively in input
// order. A goal is attached at most once even if the stored links are corrupt.
func BuildForest(goals []*model.Goal) []*model.GoalNode {
	children := make(map[string][]*model.Goal, len(goals))
	for _, g := range goals {
		if g.HasParent() {
			children[*g.ParentID] = append(children[*g.ParentID], g)
		}
	}

	seen := make(map[string]bool, len(goals))
	var attach func(g *model.Goal) *model.GoalNode
	attach = func(g *model.Goal) *model.GoalNode {
		seen[g.ID] = true
		node := &model.GoalNode{Goal: g, Children: []*model.GoalNode{}}
		for _, c := range children[g.ID] {
			if seen[c.ID] {
				continue
			}
			node.Children = append(node.Children, attach(c))
		}
		return node
	}

	roots := []*model.GoalNode{}
	for _, g := range goals {
		if g.Level != model.LevelKeystone || seen[g.ID] {
			continue
		}
		roots = append(roots, attach(g))
	}
	return roots
}

// Walk visits node and its descendants depth-first.
func Walk(node *model.GoalNode, fn func(*model.GoalNode)) {
	fn(node)
	for _, c := range node.Children {
		Walk(c, fn)
	}
}
