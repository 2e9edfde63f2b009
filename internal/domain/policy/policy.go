// Package policy holds the authorization rules consulted by the board,
// invitation and task services before any mutation. The rules are pure
// functions over entities so they can be unit tested without a transport
// or storage layer.
package policy

import (
	"github.com/google/uuid"

	"github.com/taskboard/core/internal/domain/entities"
)

// roleRank orders roles for hierarchy checks: owner > admin > member.
var roleRank = map[entities.MemberRole]int{
	entities.RoleOwner:  3,
	entities.RoleAdmin:  2,
	entities.RoleMember: 1,
}

// RoleAtLeast reports whether role sits at or above min in the hierarchy.
func RoleAtLeast(role, min entities.MemberRole) bool {
	return roleRank[role] >= roleRank[min]
}

// CanWriteOwned implements the owner-or-read-only rule: writes on an owned
// resource are permitted only to its owner. Reads are open to anyone who
// can resolve the resource.
func CanWriteOwned(actorID, ownerID uuid.UUID) bool {
	return actorID == ownerID
}

// CanWriteTask implements the board-member-or-read-only rule for tasks:
// the owner, a listed collaborator, or (when the task is board scoped) any
// board member may write. isBoardMember reflects the actor's membership on
// the task's board and is ignored for unscoped tasks.
func CanWriteTask(actorID uuid.UUID, task *entities.Task, isBoardMember bool) bool {
	if task.OwnerID == actorID {
		return true
	}
	if task.IsCollaborator(actorID) {
		return true
	}
	return task.IsBoardScoped() && isBoardMember
}

// CanViewTask mirrors the task visibility rule: owner, collaborator, or
// board member when the task is board scoped.
func CanViewTask(actorID uuid.UUID, task *entities.Task, isBoardMember bool) bool {
	return CanWriteTask(actorID, task, isBoardMember)
}

// CanInvite reports whether a membership role may issue board invitations.
// Only owner and admin roles qualify.
func CanInvite(role entities.MemberRole) bool {
	return RoleAtLeast(role, entities.RoleAdmin)
}

// CanRemoveMembership enforces that owner memberships are never removable
// through member management.
func CanRemoveMembership(target *entities.BoardMembership) bool {
	return target.Role != entities.RoleOwner
}

// CanAcceptInvitation reports whether the actor is the addressee of the
// invitation. Matching is by exact email.
func CanAcceptInvitation(actor *entities.User, inv *entities.BoardInvitation) bool {
	return actor.Email == inv.InviteeEmail
}
