package driver

import "github.com/chewxy/math32"

type orbitConfig struct {
	radius       float32
	azimuth      float32
	elevation    float32
	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32
	orbitSpeed   float32
	zoomSpeed    float32
}

func defaultOrbitConfig() *orbitConfig {
	return &orbitConfig{
		radius:       250,
		elevation:    math32.Pi / 6,
		minRadius:    20,
		maxRadius:    2000,
		minElevation: 0.05,
		maxElevation: math32.Pi/2 - 0.1,
		orbitSpeed:   0.03,
		zoomSpeed:    15,
	}
}

type OrbitOption func(*orbitConfig)

// WithOrbitRadius sets the initial distance from the target.
//
// Parameters:
//   - radius: the distance in world units
//
// Returns:
//   - OrbitOption: a function that sets the radius
func WithOrbitRadius(radius float32) OrbitOption {
	return func(c *orbitConfig) {
		c.radius = radius
	}
}

// WithOrbitAngles sets the initial azimuth around the y axis and elevation above the xz plane.
//
// Parameters:
//   - azimuth: horizontal angle in radians
//   - elevation: vertical angle in radians
//
// Returns:
//   - OrbitOption: a function that sets the angles
func WithOrbitAngles(azimuth, elevation float32) OrbitOption {
	return func(c *orbitConfig) {
		c.azimuth, c.elevation = azimuth, elevation
	}
}

// WithRadiusBounds clamps the radius.
//
// Parameters:
//   - lo: minimum radius
//   - hi: maximum radius
//
// Returns:
//   - OrbitOption: a function that sets the radius bounds
func WithRadiusBounds(lo, hi float32) OrbitOption {
	return func(c *orbitConfig) {
		c.minRadius, c.maxRadius = lo, hi
	}
}

// WithElevationBounds clamps the elevation.
//
// Parameters:
//   - lo: minimum elevation in radians
//   - hi: maximum elevation in radians
//
// Returns:
//   - OrbitOption: a function that sets the elevation bounds
func WithElevationBounds(lo, hi float32) OrbitOption {
	return func(c *orbitConfig) {
		c.minElevation, c.maxElevation = lo, hi
	}
}

// WithOrbitSpeed sets the angle step of Truck and Pedestal.
//
// Parameters:
//   - speed: radians per unit of movement
//
// Returns:
//   - OrbitOption: a function that sets the orbit speed
func WithOrbitSpeed(speed float32) OrbitOption {
	return func(c *orbitConfig) {
		c.orbitSpeed = speed
	}
}

// WithZoomSpeed sets the radius step of Dolly.
//
// Parameters:
//   - speed: world units per unit of movement
//
// Returns:
//   - OrbitOption: a function that sets the zoom speed
func WithZoomSpeed(speed float32) OrbitOption {
	return func(c *orbitConfig) {
		c.zoomSpeed = speed
	}
}
