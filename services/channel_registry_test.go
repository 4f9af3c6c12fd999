package services

import (
	"context"
	"testing"

	"workspace-chat/domain/chat"
	"workspace-chat/errors"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func Test_Create_Direct_Channel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	registry := NewChannelRegistry(f.log, f.channels, f.clock)

	tests := []struct {
		description string
		members     []chat.UserID
		wantErr     error
	}{
		{"Should succeed with two distinct members", []chat.UserID{"alice", "bob"}, nil},
		{"Should dedupe members before counting", []chat.UserID{"alice", "bob", "bob"}, nil},
		{"Should fail with one member", []chat.UserID{"alice"}, errors.ErrInvalidMembership},
		{"Should fail with the same member twice", []chat.UserID{"alice", "alice"}, errors.ErrInvalidMembership},
		{"Should fail with three members", []chat.UserID{"alice", "bob", "carol"}, errors.ErrInvalidMembership},
		{"Should fail when the creator is not a member", []chat.UserID{"bob", "carol"}, errors.ErrInvalidMembership},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			channel, err := registry.Create(ctx, chat.CreateChannelCommand{
				WorkspaceID:    "w1",
				Kind:           chat.KindDirect,
				Name:           "ignored",
				CreatedBy:      "alice",
				InitialMembers: tt.members,
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Empty(t, channel.Name)
			members, err := registry.Members(ctx, channel.ID)
			require.NoError(t, err)
			require.Equal(t, []chat.UserID{"alice", "bob"}, members)
		})
	}
}

func Test_Direct_Channel_Is_Immutable(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	registry := NewChannelRegistry(f.log, f.channels, f.clock)

	channel, err := registry.Create(ctx, chat.CreateChannelCommand{WorkspaceID: "w1", Kind: chat.KindDirect, CreatedBy: "alice", InitialMembers: []chat.UserID{"alice", "bob"}})
	req.NoError(err)

	req.ErrorIs(registry.AddMember(ctx, channel.ID, "carol"), errors.ErrImmutable)
	req.ErrorIs(registry.RemoveMember(ctx, channel.ID, "bob"), errors.ErrImmutable)
	_, err = registry.Rename(ctx, channel.ID, "renamed")
	req.ErrorIs(err, errors.ErrImmutable)
}

func Test_Open_Channel_Membership(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	registry := NewChannelRegistry(f.log, f.channels, f.clock)

	// Given a channel whose creator was not listed
	channel, err := registry.Create(ctx, chat.CreateChannelCommand{WorkspaceID: "w1", Kind: chat.KindOpen, Name: " general ", CreatedBy: "alice", InitialMembers: []chat.UserID{"bob"}})
	req.NoError(err)
	req.Equal("general", channel.Name)
	req.Equal(start, channel.CreatedAt)

	// Then the creator is a member
	members, err := registry.Members(ctx, channel.ID)
	req.NoError(err)
	req.Equal([]chat.UserID{"alice", "bob"}, members)

	// And add/remove are idempotent
	req.NoError(registry.AddMember(ctx, channel.ID, "carol"))
	req.NoError(registry.AddMember(ctx, channel.ID, "carol"))
	req.NoError(registry.RemoveMember(ctx, channel.ID, "bob"))
	req.NoError(registry.RemoveMember(ctx, channel.ID, "bob"))
	members, err = registry.Members(ctx, channel.ID)
	req.NoError(err)
	req.Equal([]chat.UserID{"alice", "carol"}, members)

	renamed, err := registry.Rename(ctx, channel.ID, "town-square")
	req.NoError(err)
	req.Equal("town-square", renamed.Name)

	req.ErrorIs(registry.AddMember(ctx, "missing", "carol"), errors.ErrChannelNotFound)
}

func Test_Create_Rejects_Unknown_Kind(t *testing.T) {
	f := newFixture(t)
	registry := NewChannelRegistry(f.log, f.channels, f.clock)

	_, err := registry.Create(context.Background(), chat.CreateChannelCommand{Kind: "broadcast", CreatedBy: "alice"})
	require.ErrorIs(t, err, errors.ErrValidation)
}

func Test_Archive_Excluded_From_Default_Listing(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	registry := NewChannelRegistry(f.log, f.channels, f.clock)

	kept, err := registry.Create(ctx, chat.CreateChannelCommand{WorkspaceID: "w1", Kind: chat.KindOpen, Name: "kept", CreatedBy: "alice"})
	req.NoError(err)
	old, err := registry.Create(ctx, chat.CreateChannelCommand{WorkspaceID: "w1", Kind: chat.KindRestricted, Name: "old", CreatedBy: "alice"})
	req.NoError(err)

	archived, err := registry.Archive(ctx, old.ID)
	req.NoError(err)
	req.True(archived.Archived)
	again, err := registry.Archive(ctx, old.ID)
	req.NoError(err)
	req.Equal(archived, again)

	visible, err := registry.ListForUser(ctx, "alice", false)
	req.NoError(err)
	req.Equal([]chat.ChannelID{kept.ID}, lo.Map(visible, func(c chat.Channel, _ int) chat.ChannelID { return c.ID }))

	all, err := registry.ListForUser(ctx, "alice", true)
	req.NoError(err)
	req.ElementsMatch([]chat.ChannelID{kept.ID, old.ID}, lo.Map(all, func(c chat.Channel, _ int) chat.ChannelID { return c.ID }))

	// Archived channels stay readable
	got, err := registry.Get(ctx, old.ID)
	req.NoError(err)
	req.True(got.Archived)
}
