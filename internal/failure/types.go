package failure

import "fmt"

// Direction is the cardinal direction a wipe line sweeps toward.
type Direction int

const (
	North Direction = iota // from y=0 toward y=areaHeight
	East                   // from x=0 toward x=areaWidth
	South                  // from y=areaHeight toward y=0
	West                   // from x=areaWidth toward x=0
)

func (d Direction) String() string {
	switch d {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection maps a config tag to a direction. The tag "R" asks for a
// random cardinal direction, drawn once when the sweep activates.
func ParseDirection(tag string) (dir Direction, random bool, err error) {
	switch tag {
	case "N":
		return North, false, nil
	case "E":
		return East, false, nil
	case "S":
		return South, false, nil
	case "W":
		return West, false, nil
	case "R":
		return 0, true, nil
	}
	return 0, false, fmt.Errorf("unrecognized wipe direction %q", tag)
}

// State is the lifecycle of a sweep within one run.
type State int

const (
	Inactive State = iota
	Active
	Complete
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	case Complete:
		return "complete"
	}
	return fmt.Sprintf("State(%d)", int(s))
}
