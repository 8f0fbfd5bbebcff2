package port

// ChangeListener receives continuous-control change events.
type ChangeListener interface {
	ValueChanged(p *Port, value float64)
}

// ChangeFunc adapts a function to ChangeListener.
type ChangeFunc func(p *Port, value float64)

func (f ChangeFunc) ValueChanged(p *Port, value float64) { f(p, value) }

// EdgeListener receives debounced gate transitions.
type EdgeListener interface {
	EdgeChanged(p *Port, high bool)
}

// EdgeFunc adapts a function to EdgeListener.
type EdgeFunc func(p *Port, high bool)

func (f EdgeFunc) EdgeChanged(p *Port, high bool) { f(p, high) }
