package main

import (
	"os"

	storylinecmder "github.com/storylinehq/storyline/cmd/storyline"
)

func main() {
	cmd := storylinecmder.NewStorylineCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
