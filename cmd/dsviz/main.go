package main

import (
	"os"

	"github.com/XtremeXSPC/dsviz/cmd/dsviz/cmds"
)

func main() {
	if err := cmds.New().Execute(); err != nil {
		os.Exit(1)
	}
}
