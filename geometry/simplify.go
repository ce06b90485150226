package geometry

// Simplify assigns importance values to points in place. Endpoints get
// MaxImportance; every interior point that Douglas-Peucker would keep at
// sqTolerance gets the squared distance it had to its enclosing segment
// when it was selected. All other points keep Z == 0.
//
// The tile builder later keeps a point at a coarser tolerance t by checking
// Z > t*t, so a single pass serves every zoom level.
func Simplify(points []Point, sqTolerance float64) {
	if len(points) == 0 {
		return
	}
	last := len(points) - 1
	points[0].Z = MaxImportance
	points[last].Z = MaxImportance

	type span struct{ first, last int }
	stack := []span{{0, last}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		maxSqDist := sqTolerance
		mid := s.first + (s.last-s.first)/2
		minPosToMid := s.last - s.first
		index := -1

		a, b := points[s.first], points[s.last]
		for i := s.first + 1; i < s.last; i++ {
			d := sqSegmentDistance(points[i], a, b)
			if d > maxSqDist {
				index = i
				maxSqDist = d
			} else if d == maxSqDist {
				// prefer the point closest to the middle to keep spans balanced
				if posToMid := abs(i - mid); posToMid < minPosToMid {
					index = i
					minPosToMid = posToMid
				}
			}
		}

		if index >= 0 && maxSqDist > sqTolerance {
			points[index].Z = maxSqDist
			if index-s.first > 1 {
				stack = append(stack, span{s.first, index})
			}
			if s.last-index > 1 {
				stack = append(stack, span{index, s.last})
			}
		}
	}
}

// sqSegmentDistance returns the squared distance from p to segment ab.
func sqSegmentDistance(p, a, b Point) float64 {
	x, y := a.X, a.Y
	dx, dy := b.X-x, b.Y-y

	if dx != 0 || dy != 0 {
		t := ((p.X-x)*dx + (p.Y-y)*dy) / (dx*dx + dy*dy)
		if t > 1 {
			x, y = b.X, b.Y
		} else if t > 0 {
			x += dx * t
			y += dy * t
		}
	}

	dx = p.X - x
	dy = p.Y - y
	return dx*dx + dy*dy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
