package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Commands(t *testing.T) {
	c := New()

	var names []string
	for _, cmd := range c.rootCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Subset(t, names, []string{"migrate", "createuser", "seed", "set-capacity"})
	assert.NotNil(t, c.rootCmd.PersistentFlags().Lookup("config"))
}

func TestParseCapacityArgs(t *testing.T) {
	id, capacity, err := parseCapacityArgs([]string{"3", "120"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	assert.Equal(t, 120, capacity)

	_, _, err = parseCapacityArgs([]string{"x", "120"})
	assert.ErrorContains(t, err, "invalid flight id")

	_, _, err = parseCapacityArgs([]string{"3", "-1"})
	assert.ErrorContains(t, err, "invalid capacity")
}

func TestExecute_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "set-capacity needs two args",
			args:    []string{"set-capacity", "1"},
			wantErr: "accepts 2 arg(s)",
		},
		{
			name:    "missing config file",
			args:    []string{"migrate", "--config", filepath.Join(t.TempDir(), "missing.yaml")},
			wantErr: "missing.yaml",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			c := New()
			c.SetOutput(&out, &errOut)
			c.SetArgs(tc.args)

			code := c.Execute()

			assert.Equal(t, ExitFailure, code)
			assert.Contains(t, errOut.String(), tc.wantErr)
		})
	}
}
