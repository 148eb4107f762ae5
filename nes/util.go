package nes

import (
	"regexp"
	"runtime"
	"time"

	"github.com/golang/glog"
)

var runtimeFunc = regexp.MustCompile(`^.*\.(.*)$`)

// Function time tracking thanks to:
// https://stackoverflow.com/questions/45766572/is-there-an-efficient-way-to-calculate-execution-time-in-golang
//
// Use as: defer TimeTrack(time.Now())
func TimeTrack(start time.Time) {
	elapsed := time.Since(start)

	// Skip this function, and fetch the PC and file for its parent.
	pc, _, _, _ := runtime.Caller(1)

	// Retrieve a function object this functions parent.
	funcObj := runtime.FuncForPC(pc)

	// Regex to extract just the function name (and not the module path).
	name := runtimeFunc.ReplaceAllString(funcObj.Name(), "$1")

	glog.Infof("%s took %s", name, elapsed)
}
