package searcher

import (
	"math"

	"github.com/JobCorpz/flip-seven-ai/game"
)

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant

// noNode marks an empty arena slot reference.
const noNode = -1

// node is one tree position: the line reached by the hit/stay path from the
// root under some arrangement of the deck.
type node struct {
	parent   int
	action   game.Action // action that led here from the parent
	rewards  float64
	visits   int
	untried  []game.Action
	children [2]int // arena index per action, noNode when absent
}

// tree is a flat arena of nodes addressed by index; the root is index 0.
// Nodes are only ever appended, so parent indices stay valid for the life of
// the search and the whole tree frees in one piece.
type tree struct {
	nodes []node
}

func newTree(legal []game.Action) *tree {
	t := &tree{nodes: make([]node, 0, 64)}
	t.nodes = append(t.nodes, node{
		parent:   noNode,
		untried:  legal,
		children: [2]int{noNode, noNode},
	})
	return t
}

// popUntried takes the node's next unexplored action.
func (t *tree) popUntried(id int) game.Action {
	n := &t.nodes[id]
	action := n.untried[0]
	n.untried = n.untried[1:]
	return action
}

// addChild grows the tree by one node under parent.
func (t *tree) addChild(parent int, action game.Action, untried []game.Action) int {
	id := len(t.nodes)
	t.nodes = append(t.nodes, node{
		parent:   parent,
		action:   action,
		untried:  untried,
		children: [2]int{noNode, noNode},
	})
	t.nodes[parent].children[action] = id
	return id
}

// bestChild picks the child maximizing UCB1. An unexplored child wins
// immediately; noNode means the node has no children at all.
func (t *tree) bestChild(id int) int {
	normalizer := CSquared * math.Log(float64(t.nodes[id].visits))

	best := noNode
	maxScore := math.Inf(-1)
	for _, child := range t.nodes[id].children {
		if child == noNode {
			continue
		}
		score := ucb1(t.nodes[child].rewards, t.nodes[child].visits, normalizer)
		if score == math.Inf(1) {
			return child
		}
		if score > maxScore {
			maxScore = score
			best = child
		}
	}
	return best
}

// backup propagates one episode's reward up the path to the root.
func (t *tree) backup(id int, reward float64) {
	for id != noNode {
		t.nodes[id].rewards += reward
		t.nodes[id].visits++
		id = t.nodes[id].parent
	}
}

// bestAction picks the root action with the most visits; mean reward breaks
// ties.
func (t *tree) bestAction() game.Action {
	best := game.Stay
	maxVisits := -1
	maxMean := math.Inf(-1)
	for action, child := range t.nodes[0].children {
		if child == noNode {
			continue
		}
		n := t.nodes[child]
		mean := math.Inf(-1)
		if n.visits > 0 {
			mean = n.rewards / float64(n.visits)
		}
		if n.visits > maxVisits || (n.visits == maxVisits && mean > maxMean) {
			best = game.Action(action)
			maxVisits = n.visits
			maxMean = mean
		}
	}
	return best
}

func ucb1(rewards float64, visits int, c2LnN float64) float64 {
	// Prioritize unexplored nodes
	if visits == 0 {
		return math.Inf(1)
	}

	return rewards/float64(visits) + math.Sqrt(c2LnN/float64(visits))
}
