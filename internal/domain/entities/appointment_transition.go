package entities

import "fmt"

// TransitionPolicy decides whether an appointment may move from one status to another.
type TransitionPolicy interface {
	Name() string
	Allow(from, to AppointmentStatus) error
	// AllowInitial checks the status a new appointment is created with
	AllowInitial(status AppointmentStatus) error
	Targets(from AppointmentStatus) []AppointmentStatus
}

// TransitionPolicyByName returns the policy registered under name ("permissive" or "strict").
func TransitionPolicyByName(name string) (TransitionPolicy, error) {
	switch name {
	case "", PermissiveTransitions.Name():
		return PermissiveTransitions, nil
	case StrictTransitions.Name():
		return StrictTransitions, nil
	}
	return nil, fmt.Errorf("unknown transition policy %q", name)
}

type transitionTable struct {
	name  string
	edges map[AppointmentStatus]map[AppointmentStatus]struct{}
}

func (t transitionTable) Name() string { return t.name }

func (t transitionTable) Allow(from, to AppointmentStatus) error {
	if !to.Valid() {
		return fmt.Errorf("unknown appointment status %q", to)
	}
	if t.edges == nil {
		return nil
	}
	if from == to {
		return nil
	}
	if _, ok := t.edges[from][to]; !ok {
		return fmt.Errorf("appointment cannot move from %s to %s", from, to)
	}
	return nil
}

func (t transitionTable) AllowInitial(status AppointmentStatus) error {
	if !status.Valid() {
		return fmt.Errorf("unknown appointment status %q", status)
	}
	if t.edges != nil && status != AppointmentStatusScheduled {
		return fmt.Errorf("new appointments must be %s, not %s", AppointmentStatusScheduled, status)
	}
	return nil
}

// Targets lists the statuses reachable from s, in display order.
func (t transitionTable) Targets(from AppointmentStatus) []AppointmentStatus {
	var out []AppointmentStatus
	for _, s := range AppointmentStatuses {
		if s == from {
			continue
		}
		if t.Allow(from, s) == nil {
			out = append(out, s)
		}
	}
	return out
}

func edgeSet(pairs ...[2]AppointmentStatus) map[AppointmentStatus]map[AppointmentStatus]struct{} {
	out := make(map[AppointmentStatus]map[AppointmentStatus]struct{})
	for _, p := range pairs {
		if out[p[0]] == nil {
			out[p[0]] = make(map[AppointmentStatus]struct{})
		}
		out[p[0]][p[1]] = struct{}{}
	}
	return out
}

var (
	// PermissiveTransitions accepts any known status from any other.
	PermissiveTransitions = transitionTable{name: "permissive"}

	// StrictTransitions follows scheduled -> in-progress -> completed; cancellation only
	// before completion. completed and canceled are terminal, and new appointments start
	// as scheduled.
	StrictTransitions = transitionTable{
		name: "strict",
		edges: edgeSet(
			[2]AppointmentStatus{AppointmentStatusScheduled, AppointmentStatusInProgress},
			[2]AppointmentStatus{AppointmentStatusInProgress, AppointmentStatusCompleted},
			[2]AppointmentStatus{AppointmentStatusScheduled, AppointmentStatusCanceled},
			[2]AppointmentStatus{AppointmentStatusInProgress, AppointmentStatusCanceled},
		),
	}
)
