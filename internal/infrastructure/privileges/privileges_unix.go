//go:build unix

package privileges

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/greenbone/greenbone-feed-sync/internal/core/domain"
)

// IsRoot reports whether the effective user is root.
func IsRoot() bool {
	return unix.Geteuid() == 0
}

// changeUserAndGroup sets the supplementary groups, the gid and then the
// uid of every thread of the process. Root is needed for the first two.
// unix.Setgroups only changes the calling thread, syscall.Setgroups
// applies to all of them like unix.Setgid and unix.Setuid.
func changeUserAndGroup(uid, gid int) error {
	if err := syscall.Setgroups([]int{gid}); err != nil {
		return &domain.PrivilegeError{Msg: fmt.Sprintf("Can't set supplementary groups to %d", gid), Err: err}
	}
	if err := unix.Setgid(gid); err != nil {
		return &domain.PrivilegeError{Msg: fmt.Sprintf("Can't change group to %d", gid), Err: err}
	}
	if err := unix.Setuid(uid); err != nil {
		return &domain.PrivilegeError{Msg: fmt.Sprintf("Can't change user to %d", uid), Err: err}
	}
	return nil
}
