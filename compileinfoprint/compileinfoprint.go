// compileinfoprint is imported for the side effect of printing the build
// provenance of the binary to os.Stderr
package compileinfoprint

import "github.com/carbocation/growthexpr/compileinfo"

func init() {
	compileinfo.PrintToStdErr()
}
