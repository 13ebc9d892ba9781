package formation

import (
	"github.com/spaghettifunk/conifer/engine/math"
)

/**
 * @brief Samples a point uniformly within the volume of a sphere centered
 * at the origin.
 *
 * The radial distance is the cube root of a uniform draw scaled by radius;
 * a plain uniform radius would cluster points toward the center since shell
 * volume grows with r^2.
 *
 * @param radius The sphere radius.
 * @return A point with length <= radius.
 */
func UniformInSphere(radius float32) math.Vec3 {
	theta := math.K_PI_2 * math.RandomFloat()
	phi := math.Acos(2.0*math.RandomFloat() - 1.0)
	r := math.Cbrt(math.RandomFloat()) * radius

	sinPhi := math.Sin(phi)
	return math.NewVec3(
		r*sinPhi*math.Cos(theta),
		r*sinPhi*math.Sin(theta),
		r*math.Cos(phi),
	)
}

/**
 * @brief Samples a point uniformly within the volume of an upright cone.
 *
 * Height is drawn uniformly, the disk radius at that height follows the
 * cone taper, and the radial distance is sqrt-distributed within the disk
 * (uniform per unit area, not per unit radius). The result is re-centered
 * so y spans [-height/2, height/2] with the apex at the top.
 *
 * @param height The cone height.
 * @param baseRadius The radius at the base of the cone.
 * @return A point inside the cone.
 */
func UniformInCone(height, baseRadius float32) math.Vec3 {
	y := math.RandomFloat() * height
	rAtY := baseRadius * (height - y) / height
	r := math.Sqrt(math.RandomFloat()) * rAtY
	angle := math.K_PI_2 * math.RandomFloat()

	return math.NewVec3(
		r*math.Cos(angle),
		y-height*0.5,
		r*math.Sin(angle),
	)
}

/**
 * @brief Maps a normalized height fraction t to a ring position on the
 * lateral surface of an upright cone, at a uniformly random angle.
 *
 * t=0 is the base, t=1 the apex. Note that surface area per unit height is
 * not constant down a cone: callers wanting an even spread along the slant
 * should draw t with SlantFraction rather than uniformly.
 *
 * @param height The cone height.
 * @param baseRadius The radius at the base of the cone.
 * @param t The normalized height fraction in [0, 1].
 * @return A point on the lateral surface.
 */
func OnConeSurface(height, baseRadius, t float32) math.Vec3 {
	y := t*height - height*0.5
	rAtY := baseRadius * (1.0 - t)
	angle := math.K_PI_2 * math.RandomFloat()

	return math.NewVec3(
		rAtY*math.Cos(angle),
		y,
		rAtY*math.Sin(angle),
	)
}

/**
 * @brief Draws a height fraction for OnConeSurface with density proportional
 * to the cone's lateral surface area, so rings near the wide base receive
 * more samples than rings near the apex.
 */
func SlantFraction() float32 {
	return 1.0 - math.Sqrt(math.RandomFloat())
}

/**
 * @brief Deterministic point on an evenly-spaced helix wrapping an upright
 * cone, as a function of the element index. No randomness: ordered wrap
 * effects (a garland) need elements laid out along the path in sequence.
 *
 * @param index The element index in [0, count).
 * @param count The total number of elements on the path.
 * @param height The cone height.
 * @param baseRadius The radius at the base of the cone.
 * @param loops How many times the helix wraps around the cone.
 * @param minRadius Radial offset added along the whole path, keeping the
 * helix clear of the surface near the apex.
 * @return The helix point for the given index.
 */
func SpiralPoint(index, count int, height, baseRadius, loops, minRadius float32) math.Vec3 {
	t := float32(index) / float32(count)
	y := t*height - height*0.5
	rAtY := baseRadius*(1.0-t) + minRadius
	angle := t * math.K_PI_2 * loops

	return math.NewVec3(
		rAtY*math.Cos(angle),
		y,
		rAtY*math.Sin(angle),
	)
}
