//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target to run when none is specified
var Default = Build

var tools = []string{"tofu_drf", "plot_drf", "drf_projection"}

// Build compiles every tool into ./bin.
func Build() error {
	mg.Deps(Lint)
	for _, tool := range tools {
		fmt.Printf("Building %s...\n", tool)
		if err := sh.RunV("go", "build", "-o", "./bin/"+tool, "./"+tool); err != nil {
			return err
		}
	}
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint runs go vet and revive.
func Lint() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "revive", "-set_exit_status", "./...")
}
