package statemachine

import (
	"food-marketplace-api/apperr"
	"food-marketplace-api/models"
)

// Transition defines a valid state change and which role may perform it
type Transition struct {
	From models.OrderStatus
	To   models.OrderStatus
	Role models.UserRole
}

// validTransitions is the authoritative state machine definition.
// Admins are not listed: they may perform any edge that exists for
// some role.
var validTransitions = []Transition{
	// Vendor drives the order through preparation
	{From: models.StatusPending, To: models.StatusConfirmed, Role: models.RoleVendor},
	{From: models.StatusConfirmed, To: models.StatusPreparing, Role: models.RoleVendor},
	// Courier drives delivery progress
	{From: models.StatusPreparing, To: models.StatusOutForDelivery, Role: models.RoleCourier},
	{From: models.StatusOutForDelivery, To: models.StatusDelivered, Role: models.RoleCourier},
	// Vendor can cancel any non-terminal order
	{From: models.StatusPending, To: models.StatusCancelled, Role: models.RoleVendor},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Role: models.RoleVendor},
	{From: models.StatusPreparing, To: models.StatusCancelled, Role: models.RoleVendor},
	{From: models.StatusOutForDelivery, To: models.StatusCancelled, Role: models.RoleVendor},
	// Customer can only request cancellation early in the lifecycle
	{From: models.StatusPending, To: models.StatusCancelled, Role: models.RoleCustomer},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Role: models.RoleCustomer},
}

type transitionKey struct {
	From models.OrderStatus
	To   models.OrderStatus
	Role models.UserRole
}

type edgeKey struct {
	From models.OrderStatus
	To   models.OrderStatus
}

// Lookup maps built once for O(1) validation
var (
	transitionMap = func() map[transitionKey]bool {
		m := make(map[transitionKey]bool)
		for _, t := range validTransitions {
			m[transitionKey{t.From, t.To, t.Role}] = true
		}
		return m
	}()
	edgeMap = func() map[edgeKey]bool {
		m := make(map[edgeKey]bool)
		for _, t := range validTransitions {
			m[edgeKey{t.From, t.To}] = true
		}
		return m
	}()
)

// IsTerminal reports whether no transition leaves the given status.
func IsTerminal(status models.OrderStatus) bool {
	return status == models.StatusDelivered || status == models.StatusCancelled
}

// NextStatuses returns all valid successor states of a given state,
// regardless of role.
func NextStatuses(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks whether role may move an order from one status
// to another. A request for the current status is rejected: only a
// real change is a transition.
func CanTransition(from, to models.OrderStatus, role models.UserRole) error {
	if from == to {
		return apperr.Newf(apperr.InvalidTransition,
			"order is already %s; a transition must change the status", from)
	}
	if IsTerminal(from) {
		return apperr.Newf(apperr.InvalidTransition,
			"%s is a terminal status; no further transitions are accepted", from)
	}
	if role == models.RoleAdmin {
		if edgeMap[edgeKey{from, to}] {
			return nil
		}
		return invalidEdge(from, to)
	}
	if transitionMap[transitionKey{from, to, role}] {
		return nil
	}
	if edgeMap[edgeKey{from, to}] {
		return apperr.Newf(apperr.InvalidTransition,
			"%s → %s is not allowed for role '%s'", from, to, role)
	}
	return invalidEdge(from, to)
}

func invalidEdge(from, to models.OrderStatus) error {
	return apperr.Newf(apperr.InvalidTransition,
		"invalid transition: %s → %s. Valid transitions from %s are: %s",
		from, to, from, describeValidFrom(from))
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := NextStatuses(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// AllTransitions returns the full state machine for documentation
func AllTransitions() []Transition {
	return validTransitions
}
