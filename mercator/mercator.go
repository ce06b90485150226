// Package mercator maps WGS84 longitude/latitude into the unit square used
// by the tiler: x grows eastwards from the antimeridian, y grows southwards
// from the northern edge of the spherical mercator world.
package mercator

import "math"

// ProjectX maps a longitude to [0, 1]. Longitudes outside [-180, 180] map
// outside the unit interval and are folded back by wrapping later on.
func ProjectX(lon float64) float64 {
	return lon/360 + 0.5
}

// ProjectY maps a latitude to [0, 1]. Latitudes beyond the mercator band
// (about ±85.0511°) are clamped to the edges.
func ProjectY(lat float64) float64 {
	sin := math.Sin(lat * math.Pi / 180)
	y := 0.5 - 0.25*math.Log((1+sin)/(1-sin))/math.Pi
	switch {
	case y < 0 || math.IsNaN(y) && lat > 0:
		return 0
	case y > 1 || math.IsNaN(y):
		return 1
	}
	return y
}

func Project(lon, lat float64) (x, y float64) {
	return ProjectX(lon), ProjectY(lat)
}

// Unproject is the inverse of Project for points inside the unit square.
func Unproject(x, y float64) (lon, lat float64) {
	lon = (x - 0.5) * 360
	lat = 360/math.Pi*math.Atan(math.Exp((180-y*360)*math.Pi/180)) - 90
	return lon, lat
}
