package combat

import (
	"math"

	"hexbattle/internal/hexgrid"
)

// NearestEnemies walks outward ring by ring from u, up to maxRange rings,
// and returns every attackable enemy on the first ring holding any.
func (b *Battle) NearestEnemies(u *Unit, maxRange int) []*Unit {
	return b.nearestOfTeam(u.Hex, u.OpposingTeam(), maxRange, nil)
}

func (b *Battle) nearestOfTeam(center hexgrid.Hex, team, maxRange int, exclude map[string]bool) []*Unit {
	for radius := 1; radius <= maxRange; radius++ {
		ring := hexgrid.Ring(center, radius)
		if len(ring) == 0 {
			continue
		}
		var found []*Unit
		for _, h := range ring {
			for _, o := range b.units {
				if o.Hex == h && o.Team == team && o.IsAttackable() && !exclude[o.ID] {
					found = append(found, o)
				}
			}
		}
		if len(found) > 0 {
			return found
		}
	}
	return nil
}

// pick returns one of units using the battle's seeded RNG.
func (b *Battle) pick(units []*Unit) *Unit {
	switch len(units) {
	case 0:
		return nil
	case 1:
		return units[0]
	}
	return units[b.rng.Intn(len(units))]
}

// UnitsWithin returns interactable units within radius hexes of center,
// filtered by team (NoTeam for any), in insertion order.
func (b *Battle) UnitsWithin(center hexgrid.Hex, radius int, team int) []*Unit {
	var out []*Unit
	for _, u := range b.units {
		if !u.IsInteractable() || (team != NoTeam && u.Team != team) {
			continue
		}
		if hexgrid.Distance(center, u.Hex) <= radius {
			out = append(out, u)
		}
	}
	return out
}

// ClosestUnitOfTeamTo picks randomly among the interactable units of team
// nearest to hex.
func (b *Battle) ClosestUnitOfTeamTo(hex hexgrid.Hex, team int, exclude map[string]bool) *Unit {
	best := math.MaxInt
	var closest []*Unit
	for _, u := range b.units {
		if !u.IsInteractable() || (team != NoTeam && u.Team != team) || exclude[u.ID] {
			continue
		}
		d := hexgrid.Distance(u.Hex, hex)
		switch {
		case d < best:
			best = d
			closest = []*Unit{u}
		case d == best:
			closest = append(closest, u)
		}
	}
	return b.pick(closest)
}

// DistanceUnit returns the closest (or farthest) interactable unit of team
// from u, first found on ties.
func (b *Battle) DistanceUnit(closest bool, from *Unit, team int) *Unit {
	var best *Unit
	bestDistance := 0
	if closest {
		bestDistance = math.MaxInt
	}
	for _, u := range b.units {
		if u == from || !u.IsInteractable() || (team != NoTeam && u.Team != team) {
			continue
		}
		d := from.HexDistanceTo(u)
		if (closest && d < bestDistance) || (!closest && d > bestDistance) {
			bestDistance = d
			best = u
		}
	}
	return best
}

// DensestTargetHexes scores every hex by how many attackable units of team
// sit near it, nearer units counting more, and returns the top scorers.
func (b *Battle) DensestTargetHexes(team int, maxDistance int) []hexgrid.Hex {
	var density [hexgrid.Rows][hexgrid.Cols]int
	top := 0
	for _, u := range b.units {
		if (team != NoTeam && u.Team != team) || !u.IsAttackable() {
			continue
		}
		for d := 0; d <= maxDistance; d++ {
			for _, h := range hexgrid.Ring(u.Hex, d) {
				density[h.Row][h.Col] += maxDistance + 1 - d
				top = max(top, density[h.Row][h.Col])
			}
		}
	}
	if top == 0 {
		return nil
	}
	var out []hexgrid.Hex
	for _, h := range hexgrid.All() {
		if density[h.Row][h.Col] == top {
			out = append(out, h)
		}
	}
	return out
}

// AdjacentRowUnits returns units whose start hex shares hex's row within
// maxDistance columns, excluding hex itself.
func (b *Battle) AdjacentRowUnits(maxDistance int, hex hexgrid.Hex) []*Unit {
	var out []*Unit
	for _, u := range b.units {
		s := u.StartHex
		if s.Row != hex.Row || s.Col == hex.Col {
			continue
		}
		if d := s.Col - hex.Col; d <= maxDistance && -d <= maxDistance {
			out = append(out, u)
		}
	}
	return out
}

// NearestAttackableEnemies gathers up to count enemies of u ring by ring,
// skipping excluded ids.
func (b *Battle) NearestAttackableEnemies(u *Unit, exclude map[string]bool, maxRange, count int) []*Unit {
	var out []*Unit
	seen := map[string]bool{}
	for id := range exclude {
		seen[id] = true
	}
	for radius := 1; radius <= maxRange && len(out) < count; radius++ {
		ring := hexgrid.Ring(u.Hex, radius)
		if len(ring) == 0 {
			break
		}
		for _, h := range ring {
			for _, o := range b.units {
				if o.Hex == h && o.Team != u.Team && o.IsAttackable() && !seen[o.ID] {
					seen[o.ID] = true
					out = append(out, o)
					if len(out) == count {
						return out
					}
				}
			}
		}
	}
	return out
}

// occupied lists hexes blocked by colliding units other than skip.
func (b *Battle) occupied(skip *Unit) map[hexgrid.Hex]bool {
	occ := map[hexgrid.Hex]bool{}
	for _, u := range b.units {
		if u != skip && u.HasCollision() {
			occ[u.Hex] = true
		}
	}
	return occ
}

// ClosestFreeHex is hexgrid.ClosestFree against live unit positions.
func (b *Battle) ClosestFreeHex(target hexgrid.Hex, skip *Unit) (hexgrid.Hex, bool) {
	return hexgrid.ClosestFree(target, b.occupied(skip))
}
