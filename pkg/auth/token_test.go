package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocitymotors/dealerdesk-backend/pkg/config"
	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "dealerdesk-test",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	payload := AccessTokenPayload{
		UserID:   uuid.New(),
		BranchID: uuid.New(),
		Role:     enums.StaffRoleBranchManager,
	}

	signed, err := MintAccessToken(cfg, time.Now(), payload)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := ParseAccessToken(cfg, signed)
	require.NoError(t, err)
	assert.Equal(t, payload.UserID, claims.UserID)
	assert.Equal(t, payload.BranchID, claims.BranchID)
	assert.Equal(t, enums.StaffRoleBranchManager, claims.Role)
	assert.Equal(t, cfg.Issuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestMintAccessToken_RejectsInvalidInput(t *testing.T) {
	cfg := testJWTConfig()

	_, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.StaffRole("showroom_greeter"),
	})
	require.Error(t, err)

	_, err = MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		Role: enums.StaffRoleSalesRep,
	})
	require.Error(t, err)

	cfg.Secret = ""
	_, err = MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.StaffRoleSalesRep,
	})
	require.Error(t, err)
}

func TestParseAccessToken_RejectsExpiredAndForeign(t *testing.T) {
	cfg := testJWTConfig()
	payload := AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.StaffRoleGeneralManager,
	}

	signed, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), payload)
	require.NoError(t, err)
	_, err = ParseAccessToken(cfg, signed)
	require.Error(t, err, "expired token must be rejected")

	otherIssuer := cfg
	otherIssuer.Issuer = "someone-else"
	signed, err = MintAccessToken(otherIssuer, time.Now(), payload)
	require.NoError(t, err)
	_, err = ParseAccessToken(cfg, signed)
	require.Error(t, err, "foreign issuer must be rejected")
}
