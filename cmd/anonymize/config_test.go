package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadConfigFormats(t *testing.T) {
	files := map[string]string{
		"c.json": `{"input":"in.csv","output":"out.csv","round":["age","5"],"anonymize":["*"]}`,
		"c.yaml": "input: in.csv\noutput: out.csv\nround: [age, \"5\"]\nanonymize: [\"*\"]\n",
		"c.toml": "input = \"in.csv\"\noutput = \"out.csv\"\nround = [\"age\", \"5\"]\nanonymize = [\"*\"]\n",
	}
	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			cfg, err := loadConfig(writeFile(t, name, body))
			require.NoError(t, err)
			assert.Equal(t, "in.csv", cfg.Input)
			assert.Equal(t, "out.csv", cfg.Output)
			opts := cfg.options()
			assert.Equal(t, []string{"age", "5"}, opts.Round)
			assert.Equal(t, []string{"*"}, opts.Anonymize)
			assert.Nil(t, opts.Fill)
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := loadConfig(writeFile(t, "c.ini", "x=1"))
	require.Error(t, err)

	_, err = loadConfig(writeFile(t, "c.json", "{"))
	require.Error(t, err)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestStageKeys(t *testing.T) {
	var cfg fileConfig
	for _, s := range stageFlags {
		p := cfg.stage(s.key)
		require.NotNil(t, p, s.key)
		*p = []string{s.flag}
	}
	assert.Equal(t, []string{"feature-clamp"}, cfg.Clamp)
	assert.Equal(t, []string{"feature-min-max-scale"}, cfg.MinMaxScale)
	assert.Nil(t, cfg.stage("bogus"))
}

func TestEnvDefaults(t *testing.T) {
	var cfg envConfig
	require.NoError(t, env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}))
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)

	require.NoError(t, env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{
		"ANONYMIZE_LOG_LEVEL":  "debug",
		"ANONYMIZE_LOG_FORMAT": "json",
	}}))
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestParseDelimiter(t *testing.T) {
	d, sniff, err := parseDelimiter("")
	require.NoError(t, err)
	assert.Equal(t, ',', d)
	assert.False(t, sniff)

	_, sniff, err = parseDelimiter("AUTO")
	require.NoError(t, err)
	assert.True(t, sniff)

	d, _, err = parseDelimiter("tab")
	require.NoError(t, err)
	assert.Equal(t, '\t', d)

	d, _, err = parseDelimiter(";")
	require.NoError(t, err)
	assert.Equal(t, ';', d)

	_, _, err = parseDelimiter(";;")
	require.Error(t, err)
	_, _, err = parseDelimiter("#")
	require.Error(t, err)
}
