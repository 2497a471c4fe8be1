package sharelink

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRandomID_Entropy(t *testing.T) {
	id, err := NewRandomID()
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(id)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(raw)*8, 128)
	assert.Len(t, id, 24)

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id, err := NewRandomID()
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup, "随机 ID 重复: %s", id)
		seen[id] = struct{}{}
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	for i := 0; i < 100; i++ {
		id, err := NewRandomID()
		require.NoError(t, err)

		assert.True(t, Decode(Encode(id, true)))
		assert.False(t, Decode(Encode(id, false)))
	}
}

func TestDecode_FailsClosed(t *testing.T) {
	for _, token := range []string{"", " ", "perma", "PERMA_abc", "x_perma_abc", "%%%", strings.Repeat("a", 4096)} {
		assert.False(t, Decode(token), "token %q", token)
	}
}

func TestNewToken(t *testing.T) {
	permanent, err := NewToken(true)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(permanent, PermanentPrefix))
	assert.True(t, Decode(permanent))

	timed, err := NewToken(false)
	require.NoError(t, err)
	assert.False(t, Decode(timed))
	assert.NotEqual(t, strings.TrimPrefix(permanent, PermanentPrefix), timed)
}

func TestURL(t *testing.T) {
	assert.Equal(t, "https://box.example.com/share/abc", URL("https://box.example.com/", "abc"))
	assert.Equal(t, "http://localhost:8080/share/perma_x", URL("http://localhost:8080", "perma_x"))
}
