package invaders

// Autopilot is a scripted InputSource: it sweeps the ship between the play-area
// edges and taps fire on a fixed period.
type Autopilot struct {
	world *World
	// FirePeriod is the length of one press/release cycle in ticks.
	FirePeriod int
	// Margin keeps the ship this far from the edges before it turns around.
	Margin float64

	movingLeft bool
	ticks      int
}

func NewAutopilot(world *World, firePeriod int) *Autopilot {
	return &Autopilot{world: world, FirePeriod: max(firePeriod, 2), Margin: 40}
}

// Pressed is called once per action per tick, left first.
func (a *Autopilot) Pressed(action Action) bool {
	switch action {
	case ActionLeft:
		a.ticks++
		a.steer()
		return a.movingLeft
	case ActionRight:
		return !a.movingLeft
	case ActionFire:
		return a.ticks%a.FirePeriod < a.FirePeriod/2
	}
	return false
}

func (a *Autopilot) steer() {
	t, _ := a.world.Player()
	if t == nil {
		return
	}

	edge := a.world.Config().Window.Width/2 - a.Margin
	switch {
	case t.X <= -edge:
		a.movingLeft = false
	case t.X >= edge:
		a.movingLeft = true
	}
}
