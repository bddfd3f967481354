package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/stock-ledger/pkg/jwt"
)

const secret = "ledger-secret"

func TestParse_DevuelveIdentidadDelCaller(t *testing.T) {
	for _, role := range []string{"admin", "bodeguero", "vendedor", ""} {
		tok, err := pkgjwt.Generate(secret, "u-1", "m-1", role, "stock-ledger", 5)
		require.NoError(t, err)

		userID, merchantID, got, err := pkgjwt.Parse(secret, tok)
		require.NoError(t, err, "rol %q", role)
		assert.Equal(t, "u-1", userID)
		assert.Equal(t, "m-1", merchantID)
		assert.Equal(t, role, got, "el rol vacío lo resuelve RequireRole, no el parser")
	}
}

func TestParse_Rechazos(t *testing.T) {
	valid, err := pkgjwt.Generate(secret, "u-1", "m-1", "admin", "stock-ledger", 5)
	require.NoError(t, err)
	expired, err := pkgjwt.Generate(secret, "u-1", "m-1", "admin", "stock-ledger", -1)
	require.NoError(t, err)
	noUser, err := pkgjwt.Generate(secret, "", "m-1", "admin", "stock-ledger", 5)
	require.NoError(t, err)
	noMerchant, err := pkgjwt.Generate(secret, "u-1", "", "admin", "stock-ledger", 5)
	require.NoError(t, err)

	cases := []struct {
		name, secret, token string
	}{
		{"otro secret", "otro", valid},
		{"secret vacío", "", valid},
		{"expirado", secret, expired},
		{"sin usuario", secret, noUser},
		{"sin empresa", secret, noMerchant},
		{"basura", secret, "a.b.c"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := pkgjwt.Parse(tc.secret, tc.token)
			assert.Error(t, err)
		})
	}
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "u-1", "m-1", "admin", "stock-ledger", 5)
	assert.Error(t, err)
}
