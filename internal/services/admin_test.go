package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaqqye/attendance_backend_v1/internal/common"
	"github.com/zaqqye/attendance_backend_v1/internal/utils"
)

const strongPassword = "Secret@123"

func TestRegister(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.admins.Register(ctx, "root", "weak")
	assertKind(t, err, common.KindBadRequest)

	view, err := f.admins.Register(ctx, "root", strongPassword)
	require.NoError(t, err)
	assert.Equal(t, "root", view.Username)

	_, err = f.admins.Register(ctx, "second", strongPassword)
	assertKind(t, err, common.KindConflict)
}

func TestLoginStoresRefreshDigest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.admins.Register(ctx, "root", strongPassword)
	require.NoError(t, err)

	_, err = f.admins.Login(ctx, "root", "Wrong@1234")
	assertKind(t, err, common.KindUnauthorized)
	_, err = f.admins.Login(ctx, "nobody", strongPassword)
	assertKind(t, err, common.KindUnauthorized)

	session, err := f.admins.Login(ctx, "root", strongPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, session.Tokens.AccessToken)

	admin, err := f.store.GetAdminByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, utils.SHA256Hex(session.Tokens.RefreshToken), admin.RefreshToken)
}

func TestRefreshAcceptsOnlyLatestToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.admins.Register(ctx, "root", strongPassword)
	require.NoError(t, err)

	first, err := f.admins.Login(ctx, "root", strongPassword)
	require.NoError(t, err)
	second, err := f.admins.Login(ctx, "root", strongPassword)
	require.NoError(t, err)

	_, err = f.admins.Refresh(ctx, first.Tokens.RefreshToken)
	assertKind(t, err, common.KindUnauthorized)

	rotated, err := f.admins.Refresh(ctx, second.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "root", rotated.Admin.Username)

	// the refreshed token has been rotated away
	_, err = f.admins.Refresh(ctx, second.Tokens.RefreshToken)
	assertKind(t, err, common.KindUnauthorized)

	_, err = f.admins.Refresh(ctx, "")
	assertKind(t, err, common.KindUnauthorized)
}

func TestLogoutRevokesTokens(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.admins.Register(ctx, "root", strongPassword)
	require.NoError(t, err)
	session, err := f.admins.Login(ctx, "root", strongPassword)
	require.NoError(t, err)
	claims, err := f.issuer.VerifyAccess(session.Tokens.AccessToken)
	require.NoError(t, err)

	require.NoError(t, f.admins.Logout(ctx, session.Admin.ID, claims.ID, claims.ExpiresAt.Time))

	revoked, err := f.blacklist.Revoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
	_, err = f.admins.Refresh(ctx, session.Tokens.RefreshToken)
	assertKind(t, err, common.KindUnauthorized)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	view, err := f.admins.Register(ctx, "root", strongPassword)
	require.NoError(t, err)
	session, err := f.admins.Login(ctx, "root", strongPassword)
	require.NoError(t, err)

	tests := []struct {
		name               string
		old, next, confirm string
		kind               common.Kind
	}{
		{"mismatch", strongPassword, "Newpass@1", "Newpass@2", common.KindBadRequest},
		{"same", strongPassword, strongPassword, strongPassword, common.KindBadRequest},
		{"weak", strongPassword, "newpassword", "newpassword", common.KindBadRequest},
		{"wrong old", "Wrong@1234", "Newpass@1", "Newpass@1", common.KindUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertKind(t, f.admins.ChangePassword(ctx, view.ID, tt.old, tt.next, tt.confirm), tt.kind)
		})
	}

	require.NoError(t, f.admins.ChangePassword(ctx, view.ID, strongPassword, "Newpass@1", "Newpass@1"))
	_, err = f.admins.Login(ctx, "root", strongPassword)
	assertKind(t, err, common.KindUnauthorized)
	_, err = f.admins.Login(ctx, "root", "Newpass@1")
	require.NoError(t, err)

	// sessions from before the change cannot be refreshed
	_, err = f.admins.Refresh(ctx, session.Tokens.RefreshToken)
	assertKind(t, err, common.KindUnauthorized)
}
