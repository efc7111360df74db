// Command settlrctl runs offline maintenance tasks against the Settlr database.
package main

import (
	"os"

	"settlr/cmd/settlrctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
