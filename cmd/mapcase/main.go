// Command mapcase converts mind maps into test-case workbooks.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
