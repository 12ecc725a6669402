// Package maze is a grid world for the agent. The agent perceives its own
// cell and the open cells next to it, and moves one cell per action.
//
// Grid format, one row per line:
//
//	#  wall
//	.  floor
//	A  agent start (exactly one)
//	E  exit
//	K  key
//
// In a maze with keys the exits stay locked until the agent carries one.
package maze

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cognicore/bdi/pkg/bdi/internalerr"
	"github.com/cognicore/bdi/pkg/bdi/logic"
)

type point struct{ x, y int }

// Maze is a mutable grid world
type Maze struct {
	rows    []string
	pos     point
	exits   map[point]bool
	keys    map[point]bool
	carried int
	moves   int
	locked  bool
}

// Load reads a maze file.
func Load(path string) (*Maze, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a grid.
func Parse(r io.Reader) (*Maze, error) {
	m := &Maze{exits: make(map[point]bool), keys: make(map[point]bool)}
	scanner := bufio.NewScanner(r)
	agents := 0

	for y := 0; scanner.Scan(); y++ {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		row := []rune(line)
		for x, c := range row {
			switch c {
			case '#', '.':
			case 'A':
				m.pos = point{x, y}
				agents++
				row[x] = '.'
			case 'E':
				m.exits[point{x, y}] = true
				row[x] = '.'
			case 'K':
				m.keys[point{x, y}] = true
				row[x] = '.'
			default:
				return nil, fmt.Errorf("%w: line %d: unexpected %q", internalerr.ErrParse, y+1, c)
			}
		}
		m.rows = append(m.rows, string(row))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if agents != 1 {
		return nil, fmt.Errorf("%w: maze needs exactly one agent, found %d", internalerr.ErrParse, agents)
	}
	m.locked = len(m.keys) > 0
	return m, nil
}

// CellName is the constant naming the cell at x,y.
func CellName(x, y int) string { return fmt.Sprintf("c%d_%d", x, y) }

func (p point) name() string { return CellName(p.x, p.y) }

func (m *Maze) open(p point) bool {
	if p.y < 0 || p.y >= len(m.rows) {
		return false
	}
	row := []rune(m.rows[p.y])
	return p.x >= 0 && p.x < len(row) && row[p.x] == '.'
}

func (m *Maze) neighbours(p point) []point {
	var out []point
	for _, d := range []point{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} {
		n := point{p.x + d.x, p.y + d.y}
		if m.open(n) {
			out = append(out, n)
		}
	}
	return out
}

// GeneratePercepts reports the agent's cell, its open neighbours, and any
// exit or key on those cells.
func (m *Maze) GeneratePercepts() *logic.KB {
	kb := logic.NewKB()
	here := m.pos.name()
	kb.AddFact(logic.NewPredicate("at", here))

	visible := append([]point{m.pos}, m.neighbours(m.pos)...)
	for _, n := range visible[1:] {
		kb.AddFact(logic.NewPredicate("adjacent", here, n.name()))
	}
	for _, p := range visible {
		if m.exits[p] {
			kb.AddFact(logic.NewPredicate("exit", p.name()))
		}
		if m.keys[p] {
			kb.AddFact(logic.NewPredicate("key", p.name()))
		}
	}
	if m.carried > 0 {
		kb.AddFact(logic.NewPredicate("carrying", "key"))
	}
	return kb
}

// ExecuteAction accepts goto(C) for an open neighbour C and pickup(C) when
// the agent stands on a key at C. A locked exit rejects goto.
func (m *Maze) ExecuteAction(action logic.Predicate) bool {
	if action.Arity() != 1 || !action.Ground() {
		return false
	}
	target := action.Terms[0].Name

	switch action.Name {
	case "goto":
		for _, n := range m.neighbours(m.pos) {
			if n.name() == target {
				if m.exits[n] && m.locked && m.carried == 0 {
					return false
				}
				m.pos = n
				m.moves++
				return true
			}
		}
	case "pickup":
		if m.pos.name() == target && m.keys[m.pos] {
			delete(m.keys, m.pos)
			m.carried++
			return true
		}
	}
	return false
}

// Position names the agent's cell.
func (m *Maze) Position() string { return m.pos.name() }

// AtExit reports whether the agent stands on an exit.
func (m *Maze) AtExit() bool { return m.exits[m.pos] }

// Moves is the number of accepted goto actions.
func (m *Maze) Moves() int { return m.moves }

// Carried is the number of keys picked up.
func (m *Maze) Carried() int { return m.carried }

// String renders the grid with the agent, exits and keys.
func (m *Maze) String() string {
	var b strings.Builder
	for y, line := range m.rows {
		for x, c := range line {
			p := point{x, y}
			switch {
			case p == m.pos:
				c = 'A'
			case m.exits[p]:
				c = 'E'
			case m.keys[p]:
				c = 'K'
			}
			b.WriteRune(c)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
