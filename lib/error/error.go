/*package error contains simple functions for reporting FML errors.
*/
package error

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
)

// Strict escalates Warn calls into fatal internal errors. It should be set
// when numerical consistency problems need to stop a run instead of being
// logged and tolerated.
var Strict = false

// External reports an error to stderr and kills the process. It should be
// used when an error is something a user could reasonably be expected to fix
// through changes in configuration/data/environment. It has the same
// signature as the standard fmt.*printf() functions.
func External(format string, a ...interface{}) {
	log.Printf("FML exited early with the following error:\n"+format, a...)
	os.Exit(1)
}

// Internal reports an error to stderr along with a stack trace and kills the
// process. It should be used when the error requires a code dive to fix. It
// has the same signature as the standard fmt.*printf() functions.
func Internal(format string, a ...interface{}) {
	log.Println("FML exited early with the following error:")
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintf(os.Stderr, "\n\n")
	debug.PrintStack()
	os.Exit(1)
}

// Warn reports a recoverable problem and continues, unless Strict is set, in
// which case it behaves like Internal.
func Warn(format string, a ...interface{}) {
	if Strict {
		Internal(format, a...)
	}
	log.Printf("Warning: "+format, a...)
}
