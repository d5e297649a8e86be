package maze

// Position is a grid coordinate. X grows to the right, Y grows downward.
type Position struct {
	X uint32
	Y uint32
}

// Start is the room cell every maze opens first and every player spawns on.
var Start = Position{X: 1, Y: 1}

// Bounds is an inclusive coordinate rectangle used to clamp Step.
type Bounds struct {
	MinX, MinY uint32
	MaxX, MaxY uint32
}

// Step moves p by dist cells in direction d, saturating at the edges of b
// instead of leaving it.
//
// Precondition: b.MinX <= b.MaxX and b.MinY <= b.MaxY.
// Postcondition: The result lies inside b on the moved axis; the other axis is unchanged.
func Step(p Position, d Direction, b Bounds, dist uint32) Position {
	switch d {
	case Left:
		if p.X < b.MinX+dist {
			p.X = b.MinX
		} else {
			p.X -= dist
		}
	case Right:
		if p.X+dist > b.MaxX || p.X+dist < p.X {
			p.X = b.MaxX
		} else {
			p.X += dist
		}
	case Up:
		if p.Y < b.MinY+dist {
			p.Y = b.MinY
		} else {
			p.Y -= dist
		}
	case Down:
		if p.Y+dist > b.MaxY || p.Y+dist < p.Y {
			p.Y = b.MaxY
		} else {
			p.Y += dist
		}
	}
	return p
}
