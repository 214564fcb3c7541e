// Command gensecret prints random hex keys for SECRET_KEY and POLKA_KEY
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

const SecretKeyBytesLen = 32

func main() {
	if err := run(os.Stdout, rand.Reader, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error while generating secret key: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, random io.Reader, args []string) error {
	fs := pflag.NewFlagSet("gensecret", pflag.ContinueOnError)
	size := fs.IntP("bytes", "b", SecretKeyBytesLen, "Key length in bytes")
	env := fs.StringP("env", "e", "", "Print as KEY=value line for .env file, e.g. SECRET_KEY")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *size <= 0 {
		return fmt.Errorf("key length must be positive, got %d", *size)
	}

	b := make([]byte, *size)
	if _, err := io.ReadFull(random, b); err != nil {
		return err
	}

	key := hex.EncodeToString(b)
	if *env != "" {
		key = *env + "=" + key
	}

	_, err := fmt.Fprintln(w, key)
	return err
}
