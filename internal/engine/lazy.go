package engine

import "sync"

// Lazy returns an Engine that defers attachment to the automation object
// until first use and re-attaches when the frontend was started after the
// server. Safe for concurrent use.
func Lazy() Engine {
	return &lazyEngine{connect: Connect}
}

type lazyEngine struct {
	mu      sync.Mutex
	eng     Engine
	connect func() (Engine, error)
}

func (l *lazyEngine) get() (Engine, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.eng != nil && l.eng.Running() {
		return l.eng, nil
	}
	eng, err := l.connect()
	if err != nil {
		l.eng = nil
		return nil, err
	}
	l.eng = eng
	return eng, nil
}

func (l *lazyEngine) Running() bool {
	eng, err := l.get()
	return err == nil && eng.Running()
}

func (l *lazyEngine) Connections() ([]Connection, error) {
	eng, err := l.get()
	if err != nil {
		return nil, err
	}
	return eng.Connections()
}

func (l *lazyEngine) OpenConnection(description string, sync bool) (Connection, error) {
	eng, err := l.get()
	if err != nil {
		return nil, err
	}
	return eng.OpenConnection(description, sync)
}
