package game

// Ship is a named set of board coordinates. The ship lists submitted at
// setup stay immutable; the per-side remaining lists are working copies
// whose locations are consumed as hits land.
type Ship struct {
	Name     string `json:"name"`
	Location []int  `json:"location"`
}

// Clone deep-copies a ship list so a remaining list can be consumed
// without touching the reference fleet.
func CloneShips(ships []Ship) []Ship {
	out := make([]Ship, len(ships))
	for i, s := range ships {
		loc := make([]int, len(s.Location))
		copy(loc, s.Location)
		out[i] = Ship{Name: s.Name, Location: loc}
	}
	return out
}

func findShip(ships []Ship, name string) (Ship, bool) {
	for _, s := range ships {
		if s.Name == name {
			return s, true
		}
	}
	return Ship{}, false
}
