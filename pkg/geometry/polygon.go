package geometry

import "math"

// PointInPolygon tests if a point is inside a polygon using even-odd ray
// casting. This is the containment rule used for lasso selection; the
// outline drawn on screen derives from the selected pixels, never the other
// way around.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// ConvexHull computes the convex hull of a set of points using Graham scan.
// Returns the points forming the convex hull in counter-clockwise order.
func ConvexHull(points []Point2D) []Point2D {
	if len(points) < 3 {
		return points
	}

	pts := make([]Point2D, len(points))
	copy(pts, points)

	// Find the point with lowest y (and leftmost if tied)
	lowest := 0
	for i := 1; i < len(pts); i++ {
		if pts[i].Y < pts[lowest].Y ||
			(pts[i].Y == pts[lowest].Y && pts[i].X < pts[lowest].X) {
			lowest = i
		}
	}

	pts[0], pts[lowest] = pts[lowest], pts[0]
	pivot := pts[0]

	sorted := make([]Point2D, len(pts)-1)
	copy(sorted, pts[1:])

	for i := 0; i < len(sorted)-1; i++ {
		for j := i + 1; j < len(sorted); j++ {
			cross := crossProduct(pivot, sorted[i], sorted[j])
			if cross < 0 || (cross == 0 && distSq(pivot, sorted[i]) > distSq(pivot, sorted[j])) {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}

	hull := []Point2D{pivot}
	for _, p := range sorted {
		for len(hull) > 1 && crossProduct(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	return hull
}

// ConcaveHull computes a concave outline of a point set by iteratively
// splitting convex hull edges longer than maxEdge onto the nearest interior
// point. It approximates an alpha shape and exists purely to draw tighter
// selection outlines; the pixel set it outlines is computed independently.
func ConcaveHull(points []Point2D, maxEdge float64) []Point2D {
	hull := ConvexHull(points)
	if len(hull) < 3 || maxEdge <= 0 {
		return hull
	}

	onHull := make(map[Point2D]bool, len(hull))
	for _, h := range hull {
		onHull[h] = true
	}

	for pass := 0; pass < len(points); pass++ {
		split := false
		for i := 0; i < len(hull); i++ {
			a := hull[i]
			b := hull[(i+1)%len(hull)]
			if a.Distance(b) <= maxEdge {
				continue
			}

			// Nearest non-hull point to the long edge's midpoint.
			mid := Point2D{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
			best := -1
			bestDist := math.Inf(1)
			for k, p := range points {
				if onHull[p] {
					continue
				}
				if d := mid.Distance(p); d < bestDist {
					bestDist = d
					best = k
				}
			}
			if best < 0 || bestDist >= a.Distance(b) {
				continue
			}

			ins := points[best]
			hull = append(hull[:i+1], append([]Point2D{ins}, hull[i+1:]...)...)
			onHull[ins] = true
			split = true
			break
		}
		if !split {
			break
		}
	}

	return hull
}

// crossProduct computes the cross product of vectors OA and OB.
func crossProduct(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// distSq computes the squared distance between two points.
func distSq(a, b Point2D) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}
