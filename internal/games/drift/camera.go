package drift

// followRate controls how quickly the camera rig closes on the glider,
// per second. Streaming decisions use the rig position, so the smoothing
// keeps the spawn/cull window from jittering with per-tick speed changes.
const followRate = 6.0

// followCam is a smoothed follow rig along the depth axis. It implements
// level.Camera for the tiler.
type followCam struct {
	pos float64
}

// Position returns the rig position on the depth axis.
func (c *followCam) Position() float64 {
	return c.pos
}

// Update moves the rig toward the target position.
func (c *followCam) Update(target, dt float64) {
	step := followRate * dt
	if step > 1 {
		step = 1
	}
	c.pos += (target - c.pos) * step
}

// Snap places the rig exactly at the target, skipping the smoothing.
// Used on reset so the first frames do not stream for a stale position.
func (c *followCam) Snap(target float64) {
	c.pos = target
}
