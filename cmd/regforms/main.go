// Command regforms serves and fills the registration forms.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCmd(newApp())
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errInvalidDraft) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
