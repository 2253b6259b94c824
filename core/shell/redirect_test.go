package shell

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRedirect(t *testing.T) {
	cases := map[string]struct {
		args     []string
		wantArgs []string
		want     *Redirect
	}{
		"none":        {[]string{"ls", "-l"}, []string{"ls", "-l"}, nil},
		"out":         {[]string{"echo", "hi", ">", "f"}, []string{"echo", "hi"}, &Redirect{RedirectOut, "f"}},
		"in":          {[]string{"cat", "<", "f"}, []string{"cat"}, &Redirect{RedirectIn, "f"}},
		"first-wins":  {[]string{"cat", "<", "a", ">", "b"}, []string{"cat"}, &Redirect{RedirectIn, "a"}},
		"cut":         {[]string{"ls", ">", "f", "extra"}, []string{"ls"}, &Redirect{RedirectOut, "f"}},
		"trailing-op": {[]string{"ls", ">"}, []string{"ls", ">"}, nil},
		"skip-last":   {[]string{"ls", ">", "f", "<"}, []string{"ls"}, &Redirect{RedirectOut, "f"}},
		"attached":    {[]string{"ls", ">f"}, []string{"ls", ">f"}, nil},
		"op-first":    {[]string{">", "f"}, []string{}, &Redirect{RedirectOut, "f"}},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			args, redirect := ResolveRedirect(tc.args)

			assert.Equal(t, tc.wantArgs, args)
			assert.Equal(t, tc.want, redirect)
		})
	}
}

func TestResolveRedirect_noAliasing(t *testing.T) {
	orig := []string{"echo", ">", "f"}
	args, _ := ResolveRedirect(orig)

	args = append(args, "more")

	assert.Equal(t, []string{"echo", ">", "f"}, orig)
	assert.Equal(t, []string{"echo", "more"}, args)
}

func TestRedirect_Open(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	require.Nil(t, os.WriteFile(path, []byte("old contents that are long"), 0600))

	t.Run("out-truncates", func(t *testing.T) {
		fd, err := (&Redirect{Op: RedirectOut, Path: path}).Open()
		require.Nil(t, err)
		_, err = io.WriteString(fd, "new")
		assert.Nil(t, err)
		assert.Nil(t, fd.Close())

		got, err := os.ReadFile(path)
		assert.Nil(t, err)
		assert.Equal(t, "new", string(got))
	})

	t.Run("out-creates", func(t *testing.T) {
		created := filepath.Join(dir, "created.txt")
		fd, err := (&Redirect{Op: RedirectOut, Path: created}).Open()
		require.Nil(t, err)
		assert.Nil(t, fd.Close())

		info, err := os.Stat(created)
		require.Nil(t, err)
		// The umask can only remove bits.
		assert.Zero(t, info.Mode().Perm()&^fs.FileMode(0644))
	})

	t.Run("in", func(t *testing.T) {
		fd, err := (&Redirect{Op: RedirectIn, Path: path}).Open()
		require.Nil(t, err)
		defer fd.Close()

		got, err := io.ReadAll(fd)
		assert.Nil(t, err)
		assert.Equal(t, "new", string(got))
	})

	t.Run("in-missing", func(t *testing.T) {
		_, err := (&Redirect{Op: RedirectIn, Path: filepath.Join(dir, "missing")}).Open()
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("out-bad-dir", func(t *testing.T) {
		_, err := (&Redirect{Op: RedirectOut, Path: filepath.Join(dir, "missing", "out")}).Open()
		assert.Error(t, err)
	})
}
