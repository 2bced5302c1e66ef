// Package main is the entrypoint for the devinsight CLI.
package main

import (
	"github.com/huangsam/devinsight/cmd"
	"github.com/huangsam/devinsight/internal/contract"
)

func main() {
	err := cmd.Execute()
	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("stopping profiler", perr)
	}
	if err != nil {
		contract.LogFatal("devinsight failed", err)
	}
}
