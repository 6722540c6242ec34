// Package mapfile reads and writes the plain-text map format.
//
// Each row is a line of whitespace separated two-character tokens. The first
// character is the terrain: F forest, W water, G ground, a digit for playable
// ground owned by that player (1-based, 0 is neutral), or a lowercase letter
// for neutral playable ground holding a camp with letter-'a'+1 coins. The
// second character is the element: '.' for none, B bandit, T town, C castle,
// A camp, V villager, P pikeman, K knight, H hero, or a lowercase letter for a
// town holding letter-'a'+1 coins. Short rows are padded with water.
package mapfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
)

const maxStoredCoins = 26

var terrainGlyphs = map[byte]core.TerrainKind{
	'F': core.Forest,
	'W': core.Water,
	'G': core.Ground,
}

var elementGlyphs = map[byte]core.ElementKind{
	'B': core.Bandit,
	'T': core.Town,
	'C': core.Castle,
	'A': core.Camp,
	'V': core.Villager,
	'P': core.Pikeman,
	'K': core.Knight,
	'H': core.Hero,
}

type token struct {
	terrain core.TerrainKind
	owner   core.PlayerID
	kind    core.ElementKind
	coins   int
}

// Load reads a map file from disk
func Load(path string, rules *core.Rulebook) (*core.Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map %s: %w", path, err)
	}
	defer f.Close()

	m, err := Parse(f, rules)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", path, err)
	}
	return m, nil
}

// ParseString parses a map held in memory
func ParseString(s string, rules *core.Rulebook) (*core.Map, error) {
	return Parse(strings.NewReader(s), rules)
}

// Parse reads the text format from r. Blank lines are skipped.
func Parse(r io.Reader, rules *core.Rulebook) (*core.Map, error) {
	var rows [][]token
	width := 0

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		row := make([]token, 0, len(fields))
		for col, f := range fields {
			tok, err := parseToken(f)
			if err != nil {
				return nil, fmt.Errorf("line %d column %d: %w", line, col, err)
			}
			row = append(row, tok)
		}
		rows = append(rows, row)
		width = max(width, len(row))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read map: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty map: %w", core.ErrInvalidMap)
	}

	at := func(c core.Coordinate) token {
		if c.X >= len(rows[c.Y]) {
			return token{terrain: core.Water, owner: core.NoPlayer, kind: core.NoKind}
		}
		return rows[c.Y][c.X]
	}
	m, err := core.NewMap(width, len(rows), rules, func(c core.Coordinate) core.TerrainKind {
		return at(c).terrain
	})
	if err != nil {
		return nil, err
	}

	for c := range m.All() {
		tok := at(c)
		if tok.owner != core.NoPlayer {
			if err := m.ClaimCell(c, tok.owner); err != nil {
				return nil, fmt.Errorf("%w: %w", err, core.ErrInvalidMap)
			}
		}
		if tok.kind == core.NoKind {
			continue
		}
		e := core.NewElement(tok.kind, tok.owner)
		if tok.kind == core.Bandit || tok.kind == core.Camp {
			e.Owner = core.NoPlayer
		}
		e.Treasury = tok.coins
		if err := m.PlaceElement(e, c); err != nil {
			return nil, fmt.Errorf("%w: %w", err, core.ErrInvalidMap)
		}
	}
	return m, nil
}

func parseToken(s string) (token, error) {
	if len(s) != 2 {
		return token{}, fmt.Errorf("token %q is not two characters: %w", s, core.ErrInvalidMap)
	}
	tok := token{terrain: core.PlayableGround, owner: core.NoPlayer, kind: core.NoKind}

	t := s[0]
	if kind, ok := terrainGlyphs[t]; ok {
		tok.terrain = kind
	} else if t >= '0' && t <= '9' {
		tok.owner = core.PlayerID(t-'0') - 1
	} else if t >= 'a' && t <= 'z' {
		if s[1] != '.' {
			return token{}, fmt.Errorf("token %q: camp cell cannot hold another element: %w", s, core.ErrInvalidMap)
		}
		tok.kind = core.Camp
		tok.coins = int(t-'a') + 1
		return tok, nil
	} else {
		return token{}, fmt.Errorf("token %q: unknown terrain %q: %w", s, t, core.ErrInvalidMap)
	}

	switch e := s[1]; {
	case e == '.':
	case e >= 'a' && e <= 'z':
		tok.kind = core.Town
		tok.coins = int(e-'a') + 1
	default:
		kind, ok := elementGlyphs[e]
		if !ok {
			return token{}, fmt.Errorf("token %q: unknown element %q: %w", s, e, core.ErrInvalidMap)
		}
		tok.kind = kind
	}
	return tok, nil
}

// Write emits m in the text format. Coins above 26 are clamped and coins on
// camps standing on owned land are dropped.
func Write(w io.Writer, m *core.Map) error {
	bw := bufio.NewWriter(w)
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if x > 0 {
				bw.WriteByte(' ')
			}
			c := core.Coordinate{X: x, Y: y}
			cell, _ := m.CellAt(c)
			occ, _ := m.Occupant(c)
			bw.WriteString(formatToken(cell, occ))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Format returns m in the text format
func Format(m *core.Map) string {
	var sb strings.Builder
	_ = Write(&sb, m)
	return sb.String()
}

func formatToken(cell *core.Cell, occ *core.Element) string {
	var first byte
	switch cell.Kind() {
	case core.Water:
		first = 'W'
	case core.Forest:
		first = 'F'
	case core.Ground:
		first = 'G'
	default:
		first = byte('0' + cell.Owner() + 1)
	}
	if occ == nil {
		return string([]byte{first, '.'})
	}

	if occ.Kind == core.Camp && occ.Treasury > 0 && cell.IsNeutral() {
		return string([]byte{'a' + byte(min(occ.Treasury, maxStoredCoins)-1), '.'})
	}
	if occ.Kind == core.Town && occ.Treasury > 0 {
		return string([]byte{first, 'a' + byte(min(occ.Treasury, maxStoredCoins)-1)})
	}
	for glyph, kind := range elementGlyphs {
		if kind == occ.Kind {
			return string([]byte{first, glyph})
		}
	}
	return string([]byte{first, '?'})
}

// CountPlayers returns one more than the highest player id owning land or an element
func CountPlayers(m *core.Map) int {
	highest := core.NoPlayer
	for _, cell := range m.All() {
		highest = max(highest, cell.Owner())
	}
	for _, e := range m.Elements() {
		highest = max(highest, e.Owner)
	}
	return int(highest) + 1
}
