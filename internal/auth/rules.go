package auth

import (
	"errors"
	"fmt"

	"github.com/templui/corpsite/internal/token"
)

var (
	ErrForbidden  = errors.New("insufficient permissions")
	ErrSelfDelete = fmt.Errorf("%w: cannot delete your own account", ErrForbidden)
)

type ruleKind int

const (
	kindAuthenticated ruleKind = iota
	kindAdmin
	kindAdminOrEditor
	kindAdminOrSelf
	kindAdminNotSelf
)

// Rule is one row of the authorization matrix.
type Rule struct {
	kind   ruleKind
	target int64
}

func AuthenticatedOnly() Rule { return Rule{kind: kindAuthenticated} }

func AdminOnly() Rule { return Rule{kind: kindAdmin} }

func AdminOrEditor() Rule { return Rule{kind: kindAdminOrEditor} }

// AdminOrSelf allows admins, and any caller whose subject is target.
func AdminOrSelf(target int64) Rule { return Rule{kind: kindAdminOrSelf, target: target} }

// AdminNotSelf is AdminOnly plus the guard on the user-delete endpoint:
// nobody may delete the account they are signed in with.
func AdminNotSelf(target int64) Rule { return Rule{kind: kindAdminNotSelf, target: target} }

func (r Rule) String() string {
	switch r.kind {
	case kindAuthenticated:
		return "authenticated"
	case kindAdmin:
		return "admin"
	case kindAdminOrEditor:
		return "admin_or_editor"
	case kindAdminOrSelf:
		return fmt.Sprintf("admin_or_self(%d)", r.target)
	case kindAdminNotSelf:
		return fmt.Sprintf("admin_not_self(%d)", r.target)
	}
	return "unknown"
}

// Authorize evaluates rule against an authenticated caller.
func Authorize(c Caller, rule Rule) error {
	switch rule.kind {
	case kindAuthenticated:
		return nil
	case kindAdmin:
		if c.IsAdmin() {
			return nil
		}
	case kindAdminOrEditor:
		if c.IsAdmin() || c.Role == token.RoleEditor {
			return nil
		}
	case kindAdminOrSelf:
		if c.IsAdmin() || c.SubjectID == rule.target {
			return nil
		}
	case kindAdminNotSelf:
		if c.SubjectID == rule.target {
			return ErrSelfDelete
		}
		if c.IsAdmin() {
			return nil
		}
	}
	return ErrForbidden
}
