package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/rediskit"
)

func run(t *testing.T, mr *miniredis.Miniredis, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd, a := newRoot()
	defer a.close()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--addr", mr.Addr(), "--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return strings.TrimSpace(out.String()), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCmd()
	assert.Equal(t, "rediskit", cmd.Use)

	names := make([]string, 0)
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"get", "set", "del", "exists", "type", "expire", "len"} {
		assert.Contains(t, names, want)
	}

	addr, err := cmd.PersistentFlags().GetString("addr")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", addr)
	timeout, err := cmd.PersistentFlags().GetDuration("timeout")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, timeout)
}

func TestSetGetString(t *testing.T) {
	mr := miniredis.RunT(t)

	out, err := run(t, mr, "set", "string", "name", "dummy", "--ex", "120")
	require.NoError(t, err)
	assert.Equal(t, "true", out)
	assert.Equal(t, 120*time.Second, mr.TTL("name"))

	out, err = run(t, mr, "get", "string", "name")
	require.NoError(t, err)
	assert.Equal(t, `"dummy"`, out)
}

func TestSetGetHash(t *testing.T) {
	mr := miniredis.RunT(t)

	_, err := run(t, mr, "set", "hash", "user", "name=Ada", "lang=go")
	require.NoError(t, err)

	out, err := run(t, mr, "get", "hash", "user")
	require.NoError(t, err)
	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, map[string]string{"name": "Ada", "lang": "go"}, got)

	_, err = run(t, mr, "set", "hash", "user", "broken")
	assert.Error(t, err)
}

func TestListSetAndLen(t *testing.T) {
	mr := miniredis.RunT(t)

	_, err := run(t, mr, "set", "list", "colors", "red", "blue")
	require.NoError(t, err)
	out, err := run(t, mr, "get", "list", "colors")
	require.NoError(t, err)
	assert.Equal(t, `["red","blue"]`, out)

	_, err = run(t, mr, "set", "set", "tags", "b", "a", "b")
	require.NoError(t, err)
	out, err = run(t, mr, "get", "set", "tags")
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, out)

	out, err = run(t, mr, "len", "set", "tags")
	require.NoError(t, err)
	assert.Equal(t, "2", out)
}

func TestKeyCommands(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("k", "v"))

	out, err := run(t, mr, "exists", "k")
	require.NoError(t, err)
	assert.Equal(t, "true", out)

	out, err = run(t, mr, "type", "k")
	require.NoError(t, err)
	assert.Equal(t, `"string"`, out)

	out, err = run(t, mr, "expire", "k", "--px", "1500")
	require.NoError(t, err)
	assert.Equal(t, "true", out)
	assert.Equal(t, 1500*time.Millisecond, mr.TTL("k"))

	_, err = run(t, mr, "expire", "k")
	assert.Error(t, err)

	out, err = run(t, mr, "expire", "k", "--ex", "1", "--px", "1")
	require.NoError(t, err)
	assert.Equal(t, "false", out)

	out, err = run(t, mr, "del", "k")
	require.NoError(t, err)
	assert.Equal(t, "true", out)

	out, err = run(t, mr, "type", "k")
	require.NoError(t, err)
	assert.Equal(t, `"none"`, out)
}

func TestUnknownShapeAndFormat(t *testing.T) {
	mr := miniredis.RunT(t)

	_, err := run(t, mr, "get", "zset", "k")
	assert.ErrorIs(t, err, rediskit.ErrUnknownShape)

	_, err = run(t, mr, "--format", "pickle", "get", "string", "k")
	assert.Error(t, err)
}

func TestConnectFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cmd := NewRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--addr", addr, "--dial-timeout", "200ms", "--log-level", "error", "exists", "k"})
	err := cmd.Execute()
	var ce *rediskit.ConnectError
	assert.ErrorAs(t, err, &ce)
}

func TestParseValue(t *testing.T) {
	v, err := parseValue(rediskit.ShapeString, []string{"a", "b"})
	assert.Error(t, err)
	assert.Nil(t, v)

	v, err = parseValue(rediskit.ShapeSet, []string{"x", "x"})
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"x": {}}, v)

	v, err = parseValue(rediskit.ShapeHash, []string{"k=v=w"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"k": "v=w"}, v)
}

func TestAskPassword(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")

	var out bytes.Buffer
	cmd, a := newRoot()
	defer a.close()
	a.readPassword = func(io.Reader) (string, error) { return "s3cret", nil }
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--addr", mr.Addr(), "--ask-password", "exists", "k"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "false", strings.TrimSpace(out.String()))
}

func TestReadPasswordFromPipe(t *testing.T) {
	pw, err := readPassword(strings.NewReader("s3cret\n"))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)
}

func TestJSONableHashKeys(t *testing.T) {
	got := jsonable(map[any]any{int64(1): []byte("one"), "n": []any{map[any]any{true: "t"}}})
	assert.Equal(t, map[string]any{"1": "one", "n": []any{map[string]any{"true": "t"}}}, got)
}
