package table

import (
	"sync"

	"github.com/google/uuid"
)

// Phase is the state of a mounted Instance.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFiltering
)

func (p Phase) String() string {
	if p == PhaseFiltering {
		return "filtering"
	}
	return "idle"
}

type (
	// Ticket identifies one asynchronous load requested by an Instance.
	Ticket uint64

	// Observer is notified of every phase transition of an Instance.
	// It runs with the instance locked and must not call back into it.
	Observer func(instanceID string, from, to Phase)

	MountOption func(*Instance)

	// Instance is a mounted table: it owns the view state and the last applied record set.
	// Its methods are safe for concurrent use.
	Instance struct {
		mu       sync.Mutex
		id       string
		table    *Table
		observer Observer

		mounted bool
		loaded  bool
		gen     Ticket
		phase   Phase
		state   State
		records []Record
		srcErr  error
		view    View
	}
)

// WithState sets the initial view state. It survives the first applied record set.
func WithState(st State) MountOption {
	return func(inst *Instance) { inst.state = st }
}

func WithObserver(obs Observer) MountOption {
	return func(inst *Instance) { inst.observer = obs }
}

// Mount creates a new Instance of t in the loading state.
func (t *Table) Mount(opts ...MountOption) *Instance {
	inst := &Instance{
		id:      uuid.NewString(),
		table:   t,
		mounted: true,
	}
	for _, opt := range opts {
		opt(inst)
	}
	if err := t.CheckSortKey(inst.state.Order.Key); err != nil {
		inst.state.Order = Ordering{}
	}
	return inst
}

func (inst *Instance) ID() string { return inst.id }

func (inst *Instance) Table() *Table { return inst.table }

// Begin starts a new load and returns its ticket. Tickets from earlier loads become stale.
func (inst *Instance) Begin() Ticket {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	inst.gen++
	return inst.gen
}

// Apply installs the result of the load identified by ticket.
// It returns false and discards the result when the instance was unmounted or a newer load began.
// A non-nil srcErr is recorded as the source error indicator; records should then be empty.
// Replacing a previously applied record set with a different one resets the view state.
func (inst *Instance) Apply(ticket Ticket, records []Record, srcErr error) bool {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	if !inst.mounted || ticket != inst.gen {
		return false
	}
	if inst.loaded && !sameRecordSet(inst.records, records) {
		inst.state = State{}
	}
	inst.records = records
	inst.srcErr = srcErr
	inst.loaded = true
	inst.recompute()
	return true
}

// Unmount discards the state and records. Pending loads will not be applied.
func (inst *Instance) Unmount() {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	inst.mounted = false
	inst.loaded = false
	inst.records = nil
	inst.srcErr = nil
	inst.state = State{}
	inst.view = View{}
}

func (inst *Instance) Mounted() bool {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.mounted
}

func (inst *Instance) Phase() Phase {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.phase
}

func (inst *Instance) State() State {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.state
}

// SetSearch changes the search term and returns to the first page.
func (inst *Instance) SetSearch(term string) {
	inst.update(func(st *State) {
		st.Search = term
		st.Page = 0
	})
}

// SetFilter selects the filter value; "" selects all records.
func (inst *Instance) SetFilter(value string) {
	inst.update(func(st *State) {
		st.Filter = value
		st.Page = 0
	})
}

// SortBy orders the view by key. An empty key restores source order.
func (inst *Instance) SortBy(key string, dir Direction) error {
	if err := inst.table.CheckSortKey(key); err != nil {
		return err
	}
	inst.update(func(st *State) {
		st.Order = Ordering{Key: key, Direction: dir}
	})
	return nil
}

func (inst *Instance) SetPage(page int) {
	inst.update(func(st *State) { st.Page = page })
}

// View returns the current view: a skeleton until the first record set is applied.
func (inst *Instance) View() View {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	if !inst.loaded {
		return inst.table.Skeleton(inst.state)
	}
	return inst.view
}

func (inst *Instance) update(fn func(st *State)) {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	if !inst.mounted {
		return
	}
	fn(&inst.state)
	if inst.loaded {
		inst.recompute()
	}
}

// recompute runs Idle -> Filtering -> Idle. Callers hold mu.
func (inst *Instance) recompute() {
	inst.transition(PhaseFiltering)
	defer inst.transition(PhaseIdle)

	if inst.srcErr != nil {
		inst.view = inst.table.Failed(inst.state, inst.srcErr)
		return
	}
	v, err := inst.table.Compute(inst.records, inst.state)
	if err != nil {
		// sort keys are checked before they reach the state
		inst.state.Order = Ordering{}
		v, _ = inst.table.Compute(inst.records, inst.state)
	}
	inst.state = v.State
	inst.view = v
}

func (inst *Instance) transition(to Phase) {
	from := inst.phase
	inst.phase = to
	if inst.observer != nil && from != to {
		inst.observer(inst.id, from, to)
	}
}

func sameRecordSet(a, b []Record) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
