package main

import (
	"github.com/spf13/cobra"

	"github.com/zostay/go-maildecode/tools/maildecode/cmd"
)

func main() {
	err := cmd.Execute()
	cobra.CheckErr(err)
}
