package scram_test

import (
	"encoding/base64"
	"regexp"
	"strconv"
	"testing"

	"github.com/momeni/fleetflow/pkg/adapter/hash/scram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xdg "github.com/xdg-go/scram"
)

var hashPattern = regexp.MustCompile(
	`^(SCRAM-SHA-256|SCRAM-SHA-1)\$(\d+):([A-Za-z0-9+/=]+)\$([A-Za-z0-9+/=]+):([A-Za-z0-9+/=]+)$`,
)

// credentials parses h back into the stored credentials of a server.
func credentials(t *testing.T, h string) xdg.StoredCredentials {
	m := hashPattern.FindStringSubmatch(h)
	require.NotNil(t, m, "malformed hash %q", h)
	iters, err := strconv.Atoi(m[2])
	require.NoError(t, err)
	salt, err := base64.StdEncoding.DecodeString(m[3])
	require.NoError(t, err)
	stored, err := base64.StdEncoding.DecodeString(m[4])
	require.NoError(t, err)
	server, err := base64.StdEncoding.DecodeString(m[5])
	require.NoError(t, err)
	return xdg.StoredCredentials{
		KeyFactors: xdg.KeyFactors{Salt: string(salt), Iters: iters},
		StoredKey:  stored,
		ServerKey:  server,
	}
}

func authenticate(
	t *testing.T, gen xdg.HashGeneratorFcn, sc xdg.StoredCredentials,
	pass string,
) bool {
	client, err := gen.NewClient("ffweb", pass, "")
	require.NoError(t, err)
	server, err := gen.NewServer(func(string) (xdg.StoredCredentials, error) {
		return sc, nil
	})
	require.NoError(t, err)
	cc, ss := client.NewConversation(), server.NewConversation()
	c1, err := cc.Step("")
	require.NoError(t, err)
	s1, err := ss.Step(c1)
	require.NoError(t, err)
	c2, err := cc.Step(s1)
	require.NoError(t, err)
	_, err = ss.Step(c2)
	return err == nil && ss.Valid()
}

func TestHashAuthenticates(t *testing.T) {
	for name, tc := range map[string]struct {
		m   *scram.Mechanism
		gen xdg.HashGeneratorFcn
	}{
		"sha256": {scram.SHA256(), xdg.SHA256},
		"sha1":   {scram.SHA1(), xdg.SHA1},
	} {
		t.Run(name, func(t *testing.T) {
			h, err := tc.m.Hash("s3cret", "", 4096)
			require.NoError(t, err)
			sc := credentials(t, h)
			assert.Equal(t, 4096, sc.Iters)
			assert.True(t, authenticate(t, tc.gen, sc, "s3cret"))
			assert.False(t, authenticate(t, tc.gen, sc, "wrong"))
		})
	}
}

func TestHashIsDeterministicForASalt(t *testing.T) {
	m := scram.SHA256()
	salt := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef"))
	h1, err := m.Hash("pencil", salt, 4096)
	require.NoError(t, err)
	h2, err := m.Hash("pencil", salt, 4096)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	r1, err := m.Hash("pencil", "", 4096)
	require.NoError(t, err)
	assert.NotEqual(t, h1, r1, "empty salt must be randomized")
}

func TestHashRejects(t *testing.T) {
	m := scram.SHA256()
	_, err := m.Hash("", "", 4096)
	assert.Error(t, err)
	_, err = m.Hash("pass", "", 100)
	assert.Error(t, err)
	_, err = m.Hash("pass", "not base64!", 4096)
	assert.Error(t, err)
}
