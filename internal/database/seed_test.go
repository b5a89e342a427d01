package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaqqye/attendance_backend_v1/internal/config"
	"github.com/zaqqye/attendance_backend_v1/internal/logging"
	"github.com/zaqqye/attendance_backend_v1/internal/store/memstore"
	"github.com/zaqqye/attendance_backend_v1/internal/utils"
)

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	cfg := &config.Config{AdminUsername: "root", AdminPassword: "Secret#123"}

	require.NoError(t, SeedAdmin(ctx, st, cfg, logging.Discard()))
	admin, err := st.GetAdminByUsername(ctx, "root")
	require.NoError(t, err)
	assert.True(t, utils.CheckPassword(admin.Password, "Secret#123"))

	// second run is a no-op
	require.NoError(t, SeedAdmin(ctx, st, cfg, logging.Discard()))
}

func TestSeedAdminSkippedWithoutCredentials(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()

	require.NoError(t, SeedAdmin(ctx, st, &config.Config{AdminUsername: "root"}, logging.Discard()))
	_, err := st.GetAdminByUsername(ctx, "root")
	assert.Error(t, err)
}
