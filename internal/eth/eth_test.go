package eth

import (
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/layer-3/jumper/core"
	"github.com/spruceid/siwe-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAddress(t *testing.T) {
	const checksummed = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

	got, err := NormalizeAddress(strings.ToLower(checksummed))
	require.NoError(t, err)
	assert.Equal(t, checksummed, got)

	got, err = NormalizeAddress("  " + checksummed + " ")
	require.NoError(t, err)
	assert.Equal(t, checksummed, got)

	for _, bad := range []string{"", "0x1234", "not-an-address", checksummed + "00"} {
		_, err := NormalizeAddress(bad)
		assert.ErrorIs(t, err, core.ErrInvalidAddress, bad)
	}
}

func TestNewNonce(t *testing.T) {
	a, b := NewNonce(), NewNonce()
	assert.NotEqual(t, a, b)
	assert.GreaterOrEqual(t, len(a), 8)
	for _, r := range a {
		assert.True(t, (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'), "nonce must be alphanumeric: %q", a)
	}
}

func TestBuildMessage(t *testing.T) {
	issued := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	text, err := BuildMessage(MessageParams{
		Domain:         "localhost:3000",
		Address:        "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		Statement:      DefaultStatement,
		URI:            "http://localhost:3000",
		ChainID:        137,
		Nonce:          "abcdef123456",
		IssuedAt:       issued,
		ExpirationTime: issued.Add(time.Hour),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, "localhost:3000 wants you to sign in with your Ethereum account:\n"))
	assert.Contains(t, text, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	assert.Contains(t, text, DefaultStatement)

	msg, err := siwe.ParseMessage(text)
	require.NoError(t, err)
	assert.Equal(t, "abcdef123456", msg.GetNonce())
	assert.Equal(t, 137, msg.GetChainID())
	assert.Equal(t, "localhost:3000", msg.GetDomain())
}

func TestBuildMessage_Invalid(t *testing.T) {
	_, err := BuildMessage(MessageParams{
		Domain:  "localhost:3000",
		Address: "not-an-address",
		URI:     "http://localhost:3000",
		Nonce:   "abcdef123456",
	})
	assert.Error(t, err)
}

func TestSignMessage_Recoverable(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	sigHex, err := SignMessage(key, "hello")
	require.NoError(t, err)

	sig, err := hexutil.Decode(sigHex)
	require.NoError(t, err)
	require.Len(t, sig, 65)
	assert.Contains(t, []byte{27, 28}, sig[64])

	sig[64] -= 27
	pub, err := crypto.SigToPub(accounts.TextHash([]byte("hello")), sig)
	require.NoError(t, err)
	assert.Equal(t, AddressOf(key), crypto.PubkeyToAddress(*pub).Hex())
}

func TestParsePrivateKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	hexKey := hexutil.Encode(crypto.FromECDSA(key))

	parsed, err := ParsePrivateKey(hexKey)
	require.NoError(t, err)
	assert.Equal(t, AddressOf(key), AddressOf(parsed))

	_, err = ParsePrivateKey("zz")
	assert.Error(t, err)
}
