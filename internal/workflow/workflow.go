// Package workflow holds the task status state machine: which edges exist,
// who may drive each one, and which fields move with the status.
package workflow

import (
	"time"

	"task-market.com/task-market/internal/constants"
	apperrors "task-market.com/task-market/internal/errors"
	model "task-market.com/task-market/internal/models"
)

// Party is a role relative to one task.
type Party uint8

const (
	PartyOwner Party = 1 << iota
	PartyTasker
	PartyAdmin
	PartySystem
)

// Actor is whoever requests a transition.
type Actor struct {
	ProfileID string
	AccountID string
	Name      string
	Role      constants.ProfileRole
	System    bool
}

// SystemActor drives housekeeping transitions such as closing completed tasks.
var SystemActor = Actor{Name: "Task Market", System: true}

func ActorFromProfile(p *model.Profile) Actor {
	a := Actor{
		ProfileID: p.ID,
		Name:      p.FullName,
		Role:      p.Role,
	}
	if p.AccountID != nil {
		a.AccountID = *p.AccountID
	}
	return a
}

var transitions = map[constants.TaskStatus]map[constants.TaskStatus]Party{
	constants.StatusDraft: {
		constants.StatusOpen:      PartyOwner,
		constants.StatusCancelled: PartyOwner,
	},
	constants.StatusOpen: {
		constants.StatusAssigned:  PartyOwner,
		constants.StatusCancelled: PartyOwner,
	},
	constants.StatusAssigned: {
		constants.StatusInProgress: PartyTasker,
		constants.StatusCancelled:  PartyOwner,
	},
	constants.StatusInProgress: {
		constants.StatusCompleted: PartyTasker,
		constants.StatusDisputed:  PartyOwner | PartyTasker,
		constants.StatusCancelled: PartyOwner,
	},
	constants.StatusDisputed: {
		constants.StatusCompleted: PartyAdmin,
		constants.StatusCancelled: PartyAdmin,
	},
	constants.StatusCompleted: {
		constants.StatusClosed: PartyOwner | PartySystem,
	},
	constants.StatusCancelled: {},
	constants.StatusClosed:    {},
}

func CanTransition(from, to constants.TaskStatus) bool {
	_, ok := transitions[from][to]
	return ok
}

// Next lists the statuses reachable from s in table order.
func Next(s constants.TaskStatus) []constants.TaskStatus {
	var out []constants.TaskStatus
	for _, candidate := range constants.TaskStatuses {
		if CanTransition(s, candidate) {
			out = append(out, candidate)
		}
	}
	return out
}

func IsTerminal(s constants.TaskStatus) bool {
	return len(transitions[s]) == 0
}

// PartiesOf reports every role the actor plays on the task.
func PartiesOf(task *model.Task, actor Actor) Party {
	var p Party
	if actor.System {
		p |= PartySystem
	}
	if task.IsOwner(actor.ProfileID) {
		p |= PartyOwner
	}
	if task.IsAssignedTasker(actor.ProfileID) {
		p |= PartyTasker
	}
	if actor.Role == constants.RoleAdmin {
		p |= PartyAdmin
	}
	return p
}

// Check validates the edge first and the actor second; it never mutates task.
func Check(task *model.Task, to constants.TaskStatus, actor Actor) error {
	allowed, ok := transitions[task.Status][to]
	if !ok {
		return apperrors.ErrInvalidTransition
	}
	if PartiesOf(task, actor)&allowed == 0 {
		return apperrors.ErrUnauthorized
	}
	return nil
}

// Apply moves task to status to and stamps the matching lifecycle field.
// A tasker is only held while assigned, in progress, completed or disputed,
// and completed_at only while completed. Callers run Check first.
func Apply(task *model.Task, to constants.TaskStatus, now time.Time) {
	stamp := now
	switch to {
	case constants.StatusOpen:
		task.PublishedAt = &stamp
	case constants.StatusAssigned:
		task.AssignedAt = &stamp
	case constants.StatusInProgress:
		task.StartedAt = &stamp
	case constants.StatusCompleted:
		task.CompletedAt = &stamp
	case constants.StatusCancelled:
		task.CancelledAt = &stamp
		task.TaskerID = nil
		task.CompletedAt = nil
	case constants.StatusClosed:
		task.TaskerID = nil
		task.CompletedAt = nil
	}
	task.Status = to
}

// Counterparts returns the profile ids to notify after the actor moved the
// task to status. Terminal statuses notify both parties; otherwise only the
// side that did not act. Pass the task as it was before Apply so a tasker
// removed by cancelling or closing is still reached.
func Counterparts(before *model.Task, to constants.TaskStatus, actor Actor) []string {
	var ids []string
	add := func(id string) {
		if id == "" {
			return
		}
		for _, existing := range ids {
			if existing == id {
				return
			}
		}
		ids = append(ids, id)
	}

	tasker := ""
	if before.TaskerID != nil {
		tasker = *before.TaskerID
	}

	parties := PartiesOf(before, actor)
	switch {
	case IsTerminal(to) || to == constants.StatusCompleted:
		add(before.CustomerID)
		add(tasker)
	case parties&PartyOwner != 0:
		add(tasker)
	case parties&PartyTasker != 0:
		add(before.CustomerID)
	default:
		add(before.CustomerID)
		add(tasker)
	}
	return ids
}
