package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDecodeClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	claims := DecodeClaims(testToken(t, exp))
	require.NotNil(t, claims)
	require.Equal(t, "doctor", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	require.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())
}

func TestDecodeClaimsMalformed(t *testing.T) {
	require.Nil(t, DecodeClaims(""))
	require.Nil(t, DecodeClaims("garbage"))
	require.Nil(t, DecodeClaims("a.b.c"))
}

func TestDecodeClaimsWithoutExpiry(t *testing.T) {
	claims := DecodeClaims(testTokenNoExpiry(t))
	require.NotNil(t, claims)
	require.Nil(t, claims.ExpiresAt)
}
