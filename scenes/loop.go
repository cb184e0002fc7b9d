package scenes

// Loop schedules a participant's simulation. Each frame runs as many fixed
// steps as the elapsed time allows, one variable step, and a network tick
// whenever the send interval has passed.
type Loop struct {
	FixedStep   float64
	MaxSubSteps int
	NetInterval float64

	FixedUpdate func(dt float64)
	Update      func(dt float64)
	NetworkTick func()

	acc    float64
	netAcc float64
}

// Advance runs one frame of frameDt seconds and returns the number of fixed
// steps taken. Time beyond MaxSubSteps fixed steps is dropped so a stall does
// not snowball.
func (l *Loop) Advance(frameDt float64) int {
	if frameDt < 0 {
		frameDt = 0
	}

	l.acc += frameDt
	steps := 0
	for l.acc >= l.FixedStep && steps < l.MaxSubSteps {
		if l.FixedUpdate != nil {
			l.FixedUpdate(l.FixedStep)
		}
		l.acc -= l.FixedStep
		steps++
	}
	if l.acc >= l.FixedStep {
		l.acc = 0
	}

	if l.Update != nil {
		l.Update(frameDt)
	}

	l.netAcc += frameDt
	if l.NetInterval > 0 && l.netAcc >= l.NetInterval {
		if l.NetworkTick != nil {
			l.NetworkTick()
		}
		l.netAcc -= l.NetInterval
		if l.netAcc >= l.NetInterval {
			l.netAcc = 0
		}
	}
	return steps
}
