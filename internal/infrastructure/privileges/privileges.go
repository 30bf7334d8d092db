package privileges

import (
	"fmt"
	"os/user"
	"strconv"

	"github.com/hashicorp/go-hclog"

	"github.com/greenbone/greenbone-feed-sync/internal/core/domain"
	configdomain "github.com/greenbone/greenbone-feed-sync/internal/core/domain/config"
)

// ResolveUser returns the uid for a user name or numeric id.
func ResolveUser(u configdomain.IntOrString) (int, error) {
	if u.IsInt {
		return u.IntVal, nil
	}
	found, err := user.Lookup(u.StrVal)
	if err != nil {
		return 0, &domain.PrivilegeError{Msg: fmt.Sprintf("Unknown user %s", u.StrVal), Err: err}
	}
	uid, err := strconv.Atoi(found.Uid)
	if err != nil {
		return 0, &domain.PrivilegeError{Msg: fmt.Sprintf("Invalid uid %s of user %s", found.Uid, u.StrVal), Err: err}
	}
	return uid, nil
}

// ResolveGroup returns the gid for a group name or numeric id.
func ResolveGroup(g configdomain.IntOrString) (int, error) {
	if g.IsInt {
		return g.IntVal, nil
	}
	found, err := user.LookupGroup(g.StrVal)
	if err != nil {
		return 0, &domain.PrivilegeError{Msg: fmt.Sprintf("Unknown group %s", g.StrVal), Err: err}
	}
	gid, err := strconv.Atoi(found.Gid)
	if err != nil {
		return 0, &domain.PrivilegeError{Msg: fmt.Sprintf("Invalid gid %s of group %s", found.Gid, g.StrVal), Err: err}
	}
	return gid, nil
}

// Dropper switches the process to an unprivileged account.
type Dropper struct {
	logger hclog.Logger
}

func NewDropper(logger hclog.Logger) *Dropper {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Dropper{logger: logger}
}

// DropIfRoot changes to group and user if the effective uid is 0. It
// reports whether a switch happened.
func (d *Dropper) DropIfRoot(u, g configdomain.IntOrString) (bool, error) {
	if !IsRoot() {
		return false, nil
	}

	gid, err := ResolveGroup(g)
	if err != nil {
		return false, err
	}
	uid, err := ResolveUser(u)
	if err != nil {
		return false, err
	}

	d.logger.Debug("dropping privileges", "uid", uid, "gid", gid)
	if err := changeUserAndGroup(uid, gid); err != nil {
		return false, err
	}
	return true, nil
}
