package canvas

import "strings"

// NodeKind discriminates the node types in a dialog tree.
type NodeKind string

const (
	NodeRoot     NodeKind = "root"
	NodeQuestion NodeKind = "question"
	NodeAnswer   NodeKind = "answer"
	NodeApproach NodeKind = "approach"
)

// Node is one entry in a session's dialog tree. The root carries the idea;
// question and answer nodes alternate below it. Answer nodes keep every
// option that was offered at their turn plus the one that was selected.
type Node struct {
	ID               string   `json:"id"`
	Kind             NodeKind `json:"type"`
	Label            string   `json:"label"`
	Description      string   `json:"description"`
	Children         []*Node  `json:"children"`
	Options          []Option `json:"options,omitempty"`
	SelectedOptionID string   `json:"selected_option_id,omitempty"`
}

const (
	rootLabelLimit = 150
	nodeLabelLimit = 120
)

// truncateLabel shortens s to at most limit runes, marking the cut with "...".
func truncateLabel(s string, limit int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= limit {
		return string(r)
	}
	return string(r[:limit]) + "..."
}

// insertAtDeepestOpenQuestion appends child under the most recent answer on
// the rightmost branch, so each answered turn grows the spine by one
// question/answer pair. Scanning backwards, descend into an answer child
// directly, or through the most recent answered question into its answer;
// where no answer exists below (unanswered question, or no children at
// all), attach here.
func insertAtDeepestOpenQuestion(node, child *Node) {
	for i := len(node.Children) - 1; i >= 0; i-- {
		c := node.Children[i]
		if c.Kind == NodeAnswer {
			insertAtDeepestOpenQuestion(c, child)
			return
		}
		if c.Kind != NodeQuestion {
			continue
		}
		for j := len(c.Children) - 1; j >= 0; j-- {
			if c.Children[j].Kind == NodeAnswer {
				insertAtDeepestOpenQuestion(c.Children[j], child)
				return
			}
		}
	}
	node.Children = append(node.Children, child)
}

// attachChild appends child under the node with targetID, located by
// pre-order search. Returns false if no such node exists; ids are unique
// within a session so the first match is the only match.
func attachChild(node *Node, targetID string, child *Node) bool {
	if node.ID == targetID {
		node.Children = append(node.Children, child)
		return true
	}
	for _, c := range node.Children {
		if attachChild(c, targetID, child) {
			return true
		}
	}
	return false
}

// findNode returns the node with the given id, or nil.
func findNode(node *Node, id string) *Node {
	if node == nil {
		return nil
	}
	if node.ID == id {
		return node
	}
	for _, c := range node.Children {
		if n := findNode(c, id); n != nil {
			return n
		}
	}
	return nil
}

// cloneNode deep-copies a tree so snapshots stay stable after later turns.
func cloneNode(node *Node) *Node {
	if node == nil {
		return nil
	}
	out := &Node{
		ID:               node.ID,
		Kind:             node.Kind,
		Label:            node.Label,
		Description:      node.Description,
		SelectedOptionID: node.SelectedOptionID,
	}
	if len(node.Options) > 0 {
		out.Options = append([]Option(nil), node.Options...)
	}
	for _, c := range node.Children {
		out.Children = append(out.Children, cloneNode(c))
	}
	return out
}

// treeDepth returns the length of the longest root-to-leaf path, counting
// nodes. A root-only tree has depth 1.
func treeDepth(node *Node) int {
	if node == nil {
		return 0
	}
	max := 0
	for _, c := range node.Children {
		if d := treeDepth(c); d > max {
			max = d
		}
	}
	return max + 1
}
