package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_DirectChatKey_OrderIndependent(t *testing.T) {
	req := require.New(t)

	a := uuid.New()
	b := uuid.New()

	req.Equal(DirectChatKey(a, b), DirectChatKey(b, a))
	req.NotEqual(DirectChatKey(a, b), DirectChatKey(a, uuid.New()))
}

func Test_ChatParticipant_Roles(t *testing.T) {
	req := require.New(t)

	admin := &ChatParticipant{Role: ParticipantRoleAdmin}
	moderator := &ChatParticipant{Role: ParticipantRoleModerator}
	member := &ChatParticipant{Role: ParticipantRoleMember}

	req.True(admin.CanManageParticipants())
	req.True(moderator.CanManageParticipants())
	req.False(member.CanManageParticipants())
}

func Test_ChatParticipant_IsActive(t *testing.T) {
	req := require.New(t)

	p := &ChatParticipant{}
	req.True(p.IsActive())

	now := time.Now()
	p.LeftAt = &now
	req.False(p.IsActive())
}
