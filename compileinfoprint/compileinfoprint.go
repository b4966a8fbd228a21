// compileinfoprint is imported for the side effect of printing the compileinfo
// of the stagetrend binary to os.Stderr
package compileinfoprint

import "github.com/carbocation/stagetrend/compileinfo"

func init() {
	compileinfo.PrintToStdErr()
}
