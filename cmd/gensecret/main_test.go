package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_run(t *testing.T) {
	zeros := func() *bytes.Reader { return bytes.NewReader(make([]byte, 64)) }

	t.Run("default", func(t *testing.T) {
		var out bytes.Buffer

		err := run(&out, zeros(), nil)

		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("00", SecretKeyBytesLen)+"\n", out.String())
	})

	t.Run("env line", func(t *testing.T) {
		var out bytes.Buffer

		err := run(&out, zeros(), []string{"--env", "POLKA_KEY", "-b", "4"})

		require.NoError(t, err)
		assert.Equal(t, "POLKA_KEY=00000000\n", out.String())
	})

	t.Run("not enough randomness", func(t *testing.T) {
		err := run(&bytes.Buffer{}, bytes.NewReader([]byte{1}), nil)

		require.Error(t, err)
	})

	t.Run("invalid length", func(t *testing.T) {
		err := run(&bytes.Buffer{}, zeros(), []string{"-b", "0"})

		require.Error(t, err)
	})
}
