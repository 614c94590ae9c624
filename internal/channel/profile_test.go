package channel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiyun-park/fanchannel-service/internal/domain"
)

func TestProfile_DefaultAdminExists(t *testing.T) {
	svc := newTestService(t)

	profile, err := svc.Profile(context.Background(), "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, profile.Bio)
	assert.NotEmpty(t, profile.ProfileURL)
	assert.Empty(t, profile.Password, "password must not leave the service")
}

func TestProfile_NotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Profile(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	err := svc.UpdateProfile(ctx, domain.Session{}, "bio", "url")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	sess := adminSession(t, svc)
	require.NoError(t, svc.UpdateProfile(ctx, sess, "새로운 소개", "https://example.com/me.png"))

	profile, err := svc.Profile(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "새로운 소개", profile.Bio)
	assert.Equal(t, "https://example.com/me.png", profile.ProfileURL)

	// the credential survives profile edits
	_, err = svc.Authenticate(ctx, "admin", "1234")
	assert.NoError(t, err)
}
