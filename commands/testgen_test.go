package commands

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string `json:"name"`
}

func (s sample) Marshal() ([]byte, error) {
	return []byte("bin:" + s.Name), nil
}

func TestTestGenCmd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "testdata")
	examples := []Example{
		{Filename: "first", Obj: sample{Name: "a"}},
		{Filename: "second", Obj: sample{Name: "b"}},
	}
	require.NoError(t, TestGenCmd(examples, []string{out}))

	js, err := ioutil.ReadFile(filepath.Join(out, "second.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "b"}`, string(js))

	bin, err := ioutil.ReadFile(filepath.Join(out, "first.bin"))
	require.NoError(t, err)
	assert.Equal(t, "bin:a", string(bin))
}
