package metrics

import (
	"sync/atomic"
	"time"
)

// SearchMetric describes one decision of the adversarial search.
type SearchMetric struct {
	Depth      int
	Duration   time.Duration
	Nodes      int // boards visited, root excluded
	Leaves     int // evaluations at the horizon or at a base case
	Candidates int // legal moves considered at the root
}

type MoveMetric struct {
	Game  int
	Step  int
	Agent string
	Move  string
	SearchMetric
}

type GameMetric struct {
	ID            int
	Policy        string // simulated human policy
	Winner        string // "human", "computer" or "" for a draw
	HumanScore    int
	ComputerScore int
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	TotalMoves    int
	Passes        int // always 0 on boards of size 2 or more
}

type Collector interface {
	Start(depth, candidates int)
	AddNode()
	AddLeaf()
	Complete() SearchMetric
}

type collector struct {
	depth      int
	candidates int
	startTime  time.Time
	nodes      atomic.Int64
	leaves     atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

// Start resets the counters for a new decision.
func (m *collector) Start(depth, candidates int) {
	m.startTime = time.Now()
	m.depth = depth
	m.candidates = candidates
	m.nodes.Store(0)
	m.leaves.Store(0)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddLeaf() {
	m.leaves.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Depth:      m.depth,
		Duration:   time.Since(m.startTime),
		Nodes:      int(m.nodes.Load()),
		Leaves:     int(m.leaves.Load()),
		Candidates: m.candidates,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(depth, candidates int) {}
func (m *dummyCollector) AddNode()                    {}
func (m *dummyCollector) AddLeaf()                    {}
func (m *dummyCollector) Complete() SearchMetric      { return SearchMetric{} }
