package fingerprint

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSum(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"empty", nil, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", []byte("abc"), "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sum(tt.data))
		})
	}
}

func TestSumDistinguishesContent(t *testing.T) {
	assert.Equal(t, Sum([]byte("same")), Sum([]byte("same")))
	assert.NotEqual(t, Sum([]byte("a\n")), Sum([]byte("a")))
}

func TestFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/a.txt", []byte("abc"), 0o644))

	got, err := File(fs, "/p/a.txt")
	require.NoError(t, err)
	assert.Equal(t, Sum([]byte("abc")), got)

	_, err = File(fs, "/p/missing.txt")
	assert.Error(t, err)
}
