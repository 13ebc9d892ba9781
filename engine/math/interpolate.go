package math

/**
 * @brief Linearly interpolates between a and b by t.
 *
 * @param a The start value.
 * @param b The end value.
 * @param t The interpolation factor, typically in [0, 1].
 * @return The interpolated value.
 */
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

/**
 * @brief Linearly interpolates between v and other by t, component-wise.
 */
func (v Vec3) Lerp(other Vec3, t float32) Vec3 {
	return Vec3{
		Lerp(v.X, other.X, t),
		Lerp(v.Y, other.Y, t),
		Lerp(v.Z, other.Z, t)}
}

/**
 * @brief Ease-out-cubic reshaping curve: 1 - (1-x)^3.
 *
 * Front-loads motion so a linear progress value decelerates toward the end.
 * Input is clamped to [0, 1].
 */
func EaseOutCubic(x float32) float32 {
	x = Clamp(x, 0.0, 1.0)
	inv := 1.0 - x
	return 1.0 - inv*inv*inv
}
