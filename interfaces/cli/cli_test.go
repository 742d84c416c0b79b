package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("MEMORY_FIXTURE", "")
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("ENVIRONMENT", "test")

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))

	err := cmd.Execute()
	return out.String(), err
}

func TestQueryPlatforms(t *testing.T) {
	out, err := run(t, "query", "platforms")
	require.NoError(t, err)

	var result struct {
		Nodes []struct {
			ID         int64          `json:"_id"`
			Properties map[string]any `json:"properties"`
		} `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Nodes, 2)
	assert.Equal(t, "forumA", result.Nodes[0].Properties["name"])
}

func TestQueryCooccurrence(t *testing.T) {
	out, err := run(t, "query", "cooccurrence", "--tag", "python", "--platform", "forumA")
	require.NoError(t, err)

	var result struct {
		Pairs []struct {
			Posts    []int64 `json:"posts"`
			Cooccurs int64   `json:"cooccurs"`
		} `json:"pairs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Pairs, 1)
	assert.Equal(t, int64(2), result.Pairs[0].Cooccurs)
}

func TestQueryWithoutPlatformIsEmpty(t *testing.T) {
	out, err := run(t, "query", "users")
	require.NoError(t, err)

	var result struct {
		Nodes []json.RawMessage `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Empty(t, result.Nodes)
}

func TestQueryOverlongPlatform(t *testing.T) {
	_, err := run(t, "query", "users", "--platform", strings.Repeat("p", 256))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "platform failed on 'max'")
}

func TestQueryRejectsArgs(t *testing.T) {
	_, err := run(t, "query", "platforms", "extra")
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check")
	require.NoError(t, err)
	assert.Equal(t, "store memory ok\n", out)
}

func TestStoreFlagOverridesEnvironment(t *testing.T) {
	t.Setenv("STORE_DRIVER", "neo4j")

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_URL", "")
	cmd.SetArgs([]string{"check", "--store", "memory", "--env-file", filepath.Join(t.TempDir(), "none.env")})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "store memory ok\n", out.String())
}
