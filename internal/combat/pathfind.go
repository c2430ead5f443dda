package combat

import "hexbattle/internal/hexgrid"

// Pathfinder supplies movement steps. Invalidate is called whenever unit
// positions or targetability change.
type Pathfinder interface {
	Invalidate()
	NextHex(b *Battle, u *Unit) (hexgrid.Hex, bool)
}

// BFSPathfinder steps each unit along a shortest free path toward the
// nearest hex from which an attackable enemy is in range. Steps are cached
// per unit until the next invalidation.
type BFSPathfinder struct {
	dirty bool
	next  map[string]pathStep
}

type pathStep struct {
	hex hexgrid.Hex
	ok  bool
}

func NewBFSPathfinder() *BFSPathfinder {
	return &BFSPathfinder{dirty: true, next: map[string]pathStep{}}
}

func (p *BFSPathfinder) Invalidate() { p.dirty = true }

func (p *BFSPathfinder) NextHex(b *Battle, u *Unit) (hexgrid.Hex, bool) {
	if p.dirty {
		clear(p.next)
		p.dirty = false
	}
	if step, ok := p.next[u.ID]; ok {
		return step.hex, step.ok
	}
	hex, ok := p.search(b, u)
	p.next[u.ID] = pathStep{hex: hex, ok: ok}
	return hex, ok
}

func (p *BFSPathfinder) search(b *Battle, u *Unit) (hexgrid.Hex, bool) {
	goals := map[hexgrid.Hex]bool{}
	rng := max(1, u.Range())
	for _, e := range b.units {
		if e.Team == u.Team || !e.IsAttackable() {
			continue
		}
		for _, h := range hexgrid.Within(e.Hex, rng) {
			goals[h] = true
		}
	}
	if len(goals) == 0 || goals[u.Hex] {
		return hexgrid.Hex{}, false
	}
	occupied := b.occupied(u)
	parent := map[hexgrid.Hex]hexgrid.Hex{u.Hex: u.Hex}
	queue := []hexgrid.Hex{u.Hex}
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if goals[h] && h != u.Hex {
			for parent[h] != u.Hex {
				h = parent[h]
			}
			return h, true
		}
		for _, n := range hexgrid.Neighbors(h) {
			if _, seen := parent[n]; seen || occupied[n] {
				continue
			}
			parent[n] = h
			queue = append(queue, n)
		}
	}
	return hexgrid.Hex{}, false
}
