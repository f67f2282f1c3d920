//go:build !unix

package attachment

import "os"

// lockFile is a no-op where advisory locks are not available. The exclusive
// create still keeps names unique.
func lockFile(*os.File) error {
	return nil
}
