// Package neighbors resolves the compass neighbors of a tile for every
// grid topology.
//
// Resolution is table driven: each topology has one table row per compass
// direction holding either a fixed step or a pair of steps selected by the
// parity of the source row or column. Positions that fall outside the map
// leave their slot empty.
package neighbors

// Direction is one of the eight compass directions.
type Direction uint8

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

// Directions lists every direction in compass order starting at North.
var Directions = [8]Direction{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}

var directionNames = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction { return (d + 4) % 8 }

// Diagonal reports whether d is one of NE, SE, SW, NW.
func (d Direction) Diagonal() bool { return d%2 == 1 }

// String implements fmt.Stringer.
func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "Direction(?)"
}
