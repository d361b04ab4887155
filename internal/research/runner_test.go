package research

import (
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestCommandRunner_Success(t *testing.T) {
	requireShell(t)
	r := NewCommandRunner("sh", []string{"-c", `echo "researched: $0"`}, t.TempDir())

	result, err := r.Run(context.Background(), "deployment", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, result.Succeeded)
	assert.Equal(t, "researched: deployment\n", result.Text)
}

func TestCommandRunner_NonZeroExit(t *testing.T) {
	requireShell(t)
	r := NewCommandRunner("sh", []string{"-c", `echo "no access" >&2; exit 3`}, "")

	result, err := r.Run(context.Background(), "deployment", 5*time.Second)
	require.NoError(t, err)
	assert.False(t, result.Succeeded)
	assert.Equal(t, "no access\n", result.Text)
}

func TestCommandRunner_Timeout(t *testing.T) {
	requireShell(t)
	r := NewCommandRunner("sh", []string{"-c", "exec sleep 5"}, "")

	_, err := r.Run(context.Background(), "deployment", 100*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestCommandRunner_MissingBinary(t *testing.T) {
	r := NewCommandRunner("panopticon-no-such-agent", nil, "")
	_, err := r.Run(context.Background(), "deployment", time.Second)
	assert.Error(t, err)
}

func TestCommandRunner_EmptyPrompt(t *testing.T) {
	r := NewCommandRunner("sh", nil, "")
	_, err := r.Run(context.Background(), "", time.Second)
	assert.Error(t, err)
}

func TestTail(t *testing.T) {
	long := strings.Repeat("a", maxOutputBytes) + "end"
	got := tail(long)
	assert.Len(t, got, maxOutputBytes)
	assert.True(t, strings.HasSuffix(got, "end"))
}

func TestOpenAIRunner_TruncatePrompt(t *testing.T) {
	r := NewOpenAIRunnerWithClient(nil, "", nil)
	r.maxTokens = 10

	assert.Equal(t, "short", r.truncatePrompt("short"))
	assert.Len(t, r.truncatePrompt(strings.Repeat("x", 100)), 40)
}

func TestNewOpenAIRunner_RequiresKey(t *testing.T) {
	_, err := NewOpenAIRunner("", "gpt-4o", nil)
	assert.Error(t, err)
}
