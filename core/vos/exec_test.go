package vos

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookPath(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()

	exe := filepath.Join(dir, "runme")
	require.Nil(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0755))
	plain := filepath.Join(other, "readme")
	require.Nil(t, os.WriteFile(plain, []byte("text"), 0644))

	env := NewMapEnvFromEnvList([]string{"PATH=" + other + string(filepath.ListSeparator) + dir})

	cases := map[string]struct {
		file    string
		want    string
		wantErr error
	}{
		"search":             {file: "runme", want: exe},
		"missing":            {file: "nothere", wantErr: ErrNotFound},
		"not-executable":     {file: "readme", wantErr: ErrNotExecutable},
		"qualified":          {file: exe, want: exe},
		"qualified-missing":  {file: filepath.Join(dir, "nothere"), wantErr: ErrNotFound},
		"qualified-readonly": {file: plain, wantErr: ErrNotExecutable},
		"directory":          {file: dir, wantErr: ErrNotExecutable},
		"empty":              {file: "", wantErr: ErrNotFound},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			got, err := LookPath(env, tc.file)

			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, tc.want, got)
		})
	}
}
