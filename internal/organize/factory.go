package organize

import "sync"

// OrganizerFactory builds the Organizer that receives the model's folder
// structures.
type OrganizerFactory func(opts ...ExecutorOption) Organizer

var (
	factoryMu sync.RWMutex
	factory   OrganizerFactory = executorFactory
)

func executorFactory(opts ...ExecutorOption) Organizer {
	return NewExecutor(opts...)
}

// NewOrganizer builds an Organizer with the active factory, an *Executor
// unless a test swapped it.
func NewOrganizer(opts ...ExecutorOption) Organizer {
	factoryMu.RLock()
	f := factory
	factoryMu.RUnlock()
	return f(opts...)
}

// SetOrganizerFactory replaces the factory used by NewOrganizer.
func SetOrganizerFactory(f OrganizerFactory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	factory = f
}

// ResetOrganizerFactory restores the Executor factory.
func ResetOrganizerFactory() {
	SetOrganizerFactory(executorFactory)
}
