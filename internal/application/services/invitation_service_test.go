package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/ports"
)

func TestInviteUnknownEmailCreatesPendingInvitation(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	owner := e.addUser("alice", "alice@example.com")

	board, err := e.boardSvc.CreateBoard(ctx, owner.ID, ports.CreateBoardRequest{Name: "Roadmap"})
	require.NoError(t, err)

	result, err := e.invitationSvc.Invite(ctx, owner.ID, board.ID, ports.InviteRequest{InviteeEmail: "new@example.com"})
	require.NoError(t, err)
	require.NotNil(t, result.Invitation)
	assert.Nil(t, result.Membership)
	assert.Equal(t, entities.InvitationPending, result.Invitation.Status)
	assert.Equal(t, entities.RoleMember, result.Invitation.Role)

	_, err = e.invitationSvc.Invite(ctx, owner.ID, board.ID, ports.InviteRequest{InviteeEmail: "New@Example.com"})
	assert.ErrorIs(t, err, entities.ErrDuplicateInvitation, "pending invites are unique per board and address")
}

func TestInviteRegisteredEmailBecomesDirectMembership(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	owner := e.addUser("alice", "alice@example.com")
	bob := e.addUser("bob", "bob@example.com")

	board, err := e.boardSvc.CreateBoard(ctx, owner.ID, ports.CreateBoardRequest{Name: "Roadmap"})
	require.NoError(t, err)

	result, err := e.invitationSvc.Invite(ctx, owner.ID, board.ID, ports.InviteRequest{InviteeEmail: "bob@example.com", Role: entities.RoleAdmin})
	require.NoError(t, err)
	require.NotNil(t, result.Membership)
	assert.Nil(t, result.Invitation)
	assert.Equal(t, entities.RoleAdmin, result.Membership.Role)

	membership, err := e.boards.GetMembership(ctx, bob.ID, board.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.RoleAdmin, membership.Role)

	_, err = e.invitationSvc.Invite(ctx, owner.ID, board.ID, ports.InviteRequest{InviteeEmail: "bob@example.com"})
	assert.ErrorIs(t, err, entities.ErrAlreadyMember)
}

func TestInviteRequiresAdminRole(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	owner := e.addUser("alice", "alice@example.com")
	member := e.addUser("bob", "bob@example.com")
	admin := e.addUser("carol", "carol@example.com")
	outsider := e.addUser("dave", "dave@example.com")

	board, err := e.boardSvc.CreateBoard(ctx, owner.ID, ports.CreateBoardRequest{Name: "Roadmap"})
	require.NoError(t, err)
	_, err = e.boardSvc.AddMember(ctx, owner.ID, board.ID, ports.AddMemberRequest{UserID: member.ID})
	require.NoError(t, err)
	_, err = e.boardSvc.AddMember(ctx, owner.ID, board.ID, ports.AddMemberRequest{UserID: admin.ID, Role: entities.RoleAdmin})
	require.NoError(t, err)

	_, err = e.invitationSvc.Invite(ctx, member.ID, board.ID, ports.InviteRequest{InviteeEmail: "x@example.com"})
	assert.ErrorIs(t, err, entities.ErrForbidden)

	_, err = e.invitationSvc.Invite(ctx, outsider.ID, board.ID, ports.InviteRequest{InviteeEmail: "x@example.com"})
	assert.ErrorIs(t, err, entities.ErrForbidden)

	_, err = e.invitationSvc.Invite(ctx, admin.ID, board.ID, ports.InviteRequest{InviteeEmail: "x@example.com"})
	assert.NoError(t, err)

	_, err = e.invitationSvc.Invite(ctx, admin.ID, board.ID, ports.InviteRequest{InviteeEmail: "y@example.com", Role: entities.RoleOwner})
	assert.ErrorIs(t, err, entities.ErrInvalidRole)
}

func TestAcceptInvitationAfterRegistering(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	owner := e.addUser("alice", "alice@example.com")

	board, err := e.boardSvc.CreateBoard(ctx, owner.ID, ports.CreateBoardRequest{Name: "Roadmap"})
	require.NoError(t, err)

	result, err := e.invitationSvc.Invite(ctx, owner.ID, board.ID, ports.InviteRequest{InviteeEmail: "new@example.com", Role: entities.RoleAdmin})
	require.NoError(t, err)
	invitationID := result.Invitation.ID

	// The address registers later and claims the invitation.
	invitee := e.addUser("newbie", "new@example.com")

	membership, err := e.invitationSvc.Accept(ctx, invitee.ID, invitationID)
	require.NoError(t, err)
	assert.Equal(t, entities.RoleAdmin, membership.Role)
	assert.Equal(t, board.ID, membership.BoardID)

	stored, err := e.invitations.GetByID(ctx, invitationID)
	require.NoError(t, err)
	assert.Equal(t, entities.InvitationAccepted, stored.Status)

	_, err = e.invitationSvc.Accept(ctx, invitee.ID, invitationID)
	assert.ErrorIs(t, err, entities.ErrInvitationResolved, "resolved invitations stay resolved")
}

func TestAcceptInvitationWrongUser(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	owner := e.addUser("alice", "alice@example.com")
	stranger := e.addUser("mallory", "mallory@example.com")

	board, err := e.boardSvc.CreateBoard(ctx, owner.ID, ports.CreateBoardRequest{Name: "Roadmap"})
	require.NoError(t, err)

	result, err := e.invitationSvc.Invite(ctx, owner.ID, board.ID, ports.InviteRequest{InviteeEmail: "new@example.com"})
	require.NoError(t, err)

	_, err = e.invitationSvc.Accept(ctx, stranger.ID, result.Invitation.ID)
	assert.ErrorIs(t, err, entities.ErrForbidden)

	stored, err := e.invitations.GetByID(ctx, result.Invitation.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.InvitationPending, stored.Status, "a rejected claim leaves the invitation pending")
}

func TestDeclineInvitation(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	owner := e.addUser("alice", "alice@example.com")

	board, err := e.boardSvc.CreateBoard(ctx, owner.ID, ports.CreateBoardRequest{Name: "Roadmap"})
	require.NoError(t, err)

	result, err := e.invitationSvc.Invite(ctx, owner.ID, board.ID, ports.InviteRequest{InviteeEmail: "new@example.com"})
	require.NoError(t, err)

	invitee := e.addUser("newbie", "new@example.com")
	require.NoError(t, e.invitationSvc.Decline(ctx, invitee.ID, result.Invitation.ID))

	stored, err := e.invitations.GetByID(ctx, result.Invitation.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.InvitationDeclined, stored.Status)

	_, err = e.boards.GetMembership(ctx, invitee.ID, board.ID)
	assert.ErrorIs(t, err, entities.ErrMembershipNotFound, "declining never grants membership")

	_, err = e.invitationSvc.Accept(ctx, invitee.ID, result.Invitation.ID)
	assert.ErrorIs(t, err, entities.ErrInvitationResolved)
}

func TestListMineCoversSentAndReceived(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	bob := e.addUser("bob", "bob@example.com")

	bobBoard, err := e.boardSvc.CreateBoard(ctx, bob.ID, ports.CreateBoardRequest{Name: "B"})
	require.NoError(t, err)

	// Alice has no account yet, so these invites stay pending instead of
	// turning into direct memberships.
	_, err = e.invitationSvc.Invite(ctx, bob.ID, bobBoard.ID, ports.InviteRequest{InviteeEmail: "alice@example.com"})
	require.NoError(t, err)
	_, err = e.invitationSvc.Invite(ctx, bob.ID, bobBoard.ID, ports.InviteRequest{InviteeEmail: "other@example.com"})
	require.NoError(t, err)

	alice := e.addUser("alice", "alice@example.com")
	aliceBoard, err := e.boardSvc.CreateBoard(ctx, alice.ID, ports.CreateBoardRequest{Name: "A"})
	require.NoError(t, err)
	_, err = e.invitationSvc.Invite(ctx, alice.ID, aliceBoard.ID, ports.InviteRequest{InviteeEmail: "someone@example.com"})
	require.NoError(t, err)

	mine, err := e.invitationSvc.ListMine(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2, "one sent, one received")
}
