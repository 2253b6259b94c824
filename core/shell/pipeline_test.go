package shell

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/josephlewis42/watchsh/core/vos"
	"github.com/stretchr/testify/assert"
)

func TestRunPipeline(t *testing.T) {
	out := &bytes.Buffer{}
	stdio := vos.NewVIOAdapter(nil, out, nil)

	err := testLauncher().RunPipeline([]string{"printf", "a,b,c"}, []string{"tr", ",", `\n`}, stdio)

	assert.Nil(t, err)
	assert.Equal(t, "a\nb\nc", out.String())
}

func TestRunPipeline_stdin(t *testing.T) {
	out := &bytes.Buffer{}
	stdio := vos.NewVIOAdapter(strings.NewReader("one\ntwo\nthree\n"), out, nil)

	err := testLauncher().RunPipeline([]string{"cat"}, []string{"wc", "-l"}, stdio)

	assert.Nil(t, err)
	assert.Equal(t, "3", strings.TrimSpace(out.String()))
}

func TestRunPipeline_readerSeesEOF(t *testing.T) {
	out := &bytes.Buffer{}
	stdio := vos.NewVIOAdapter(nil, out, nil)

	done := make(chan error, 1)
	go func() {
		done <- testLauncher().RunPipeline([]string{"true"}, []string{"cat"}, stdio)
	}()

	select {
	case err := <-done:
		assert.Nil(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline reader never saw end of file")
	}
	assert.Empty(t, out.String())
}

func TestRunPipeline_ignoresExitStatus(t *testing.T) {
	out := &bytes.Buffer{}
	stdio := vos.NewVIOAdapter(nil, out, nil)

	err := testLauncher().RunPipeline([]string{"sh", "-c", "echo hi; exit 3"}, []string{"cat"}, stdio)

	assert.Nil(t, err)
	assert.Equal(t, "hi\n", out.String())
}

func TestRunPipeline_missingStage(t *testing.T) {
	out := &bytes.Buffer{}
	stdio := vos.NewVIOAdapter(nil, out, nil)

	err := testLauncher().RunPipeline([]string{"definitely-not-a-command-x1"}, []string{"wc", "-c"}, stdio)

	assert.EqualError(t, err, "definitely-not-a-command-x1: command not found")
	assert.Equal(t, "0", strings.TrimSpace(out.String()))
}
