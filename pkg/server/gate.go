package server

// Gate bounds the number of analyses in flight. Acquisition never
// queues: when every slot is taken the caller is turned away.
type Gate struct {
	slots chan struct{}
}

func NewGate(max int) *Gate {
	return &Gate{slots: make(chan struct{}, max)}
}

// TryAcquire claims a slot if one is free and returns its release
// function. ok is false when the gate is saturated.
func (g *Gate) TryAcquire() (func(), bool) {
	select {
	case g.slots <- struct{}{}:
		return func() { <-g.slots }, true
	default:
		return nil, false
	}
}
