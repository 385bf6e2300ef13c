package common

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagValidator(t *testing.T) {
	v := NewFlagValidator()
	assert.False(t, v.HasErrors())
	assert.NoError(t, v.GetError())

	v.ValidateInt("population", 1, 2, 100).
		ValidateChoice("selection", "best", []string{"tournament", "rank"}).
		ValidateFile("config", filepath.Join(t.TempDir(), "missing.json"), false).
		ValidateFile("catalog", "", true)

	require.True(t, v.HasErrors())
	err := v.GetError()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "population must be between 2 and 100")
	assert.Contains(t, err.Error(), "selection must be one of [tournament, rank]")
	assert.Contains(t, err.Error(), "config file does not exist")
	assert.Contains(t, err.Error(), "catalog is required")
}

func TestLogger_SilentAndPlain(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger()
	l.Out = &buf
	l.ShowEmojis = false

	l.Info("hello %d", 1)
	l.Debug("hidden")
	assert.Equal(t, "[INFO] hello 1\n", buf.String())

	buf.Reset()
	l.SetSilentMode(true)
	l.Info("quiet")
	l.Success("quiet")
	l.Error("boom")
	assert.Equal(t, "[ERROR] boom\n", buf.String())
}

func TestLoadEnvFile(t *testing.T) {
	const key = "COMBO_OPTIMIZER_TEST_VALUE"
	os.Unsetenv(key)
	t.Cleanup(func() { os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=42\n"), 0644))

	loader := NewEnvLoader(&Logger{Out: &bytes.Buffer{}})
	require.NoError(t, loader.LoadEnvFile(path))
	assert.Equal(t, "42", loader.GetEnvWithDefault(key, "0"))

	assert.NoError(t, loader.LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
	assert.Equal(t, "fallback", loader.GetEnvWithDefault("COMBO_OPTIMIZER_UNSET", "fallback"))
}

func TestParseIntList(t *testing.T) {
	sizes, err := ParseIntList(" 3, 4,5 ")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 5}, sizes)

	empty, err := ParseIntList("")
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = ParseIntList("3,x")
	assert.Error(t, err)
}

func TestRegisterCommonFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterCommonFlags(fs)
	require.NoError(t, fs.Parse([]string{"-verbose", "-env", "custom.env"}))
	assert.True(t, *flags.Verbose)
	assert.Equal(t, "custom.env", *flags.EnvFile)
	assert.False(t, *flags.Silent)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1.5s", FormatDuration(1500*time.Millisecond))
	assert.Equal(t, "2.0m", FormatDuration(2*time.Minute))
	assert.Equal(t, "1.5h", FormatDuration(90*time.Minute))
}
