// Package debug holds process-wide debug switches read from the
// environment at start up.
package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Bind    bool
	Resolve bool
	Plan    bool
}

var d *debug

func init() {
	d = &debug{}
	d.Bind = boolEnv("TONY_BIND_DEBUG")
	d.Resolve = boolEnv("TONY_BIND_DEBUG_RESOLVE")
	d.Plan = boolEnv("TONY_BIND_DEBUG_PLAN")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

// Bind reports whether bound objects render their node in String() and
// contexts log at debug level by default.
func Bind() bool {
	return d.Bind
}

// Resolve traces every node lookup.
func Resolve() bool {
	return d.Resolve
}

func Plan() bool {
	return d.Plan
}
