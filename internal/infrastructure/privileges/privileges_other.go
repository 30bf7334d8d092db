//go:build !unix

package privileges

import "errors"

func IsRoot() bool { return false }

func changeUserAndGroup(uid, gid int) error {
	return errors.New("changing user and group is not supported on this platform")
}
