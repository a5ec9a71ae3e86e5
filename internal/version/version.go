package version

import (
	"fmt"
	"io"
	"os"
	"runtime"
)

const (
	Version = "1.0"
)

func HasVersionArg() bool {
	if len(os.Args) > 1 {
		arg := os.Args[1]
		return arg == "--version" || arg == "-version" || arg == "-v" || arg == "--v" || arg == "version"
	}
	return false
}

func ShowVersion(w io.Writer) {
	fmt.Fprintf(w, "bc95decrypt v%s (%s, %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
