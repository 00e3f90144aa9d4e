package model

// GrantResultKind names a RoleGrantResult variant.
type GrantResultKind string

const (
	GrantGranted        GrantResultKind = "granted"
	GrantMemberNotFound GrantResultKind = "member_not_found"
	GrantRoleNotFound   GrantResultKind = "role_not_found"
	GrantFailedKind     GrantResultKind = "grant_failed"
)

// MemberRef is a resolved workspace member.
type MemberRef struct {
	ID   string
	Name string
}

// RoleRef is a resolved role (a Slack user group).
type RoleRef struct {
	ID     string
	Name   string
	Handle string
}

// RoleGrantResult is the outcome of one role grant attempt. Implementations:
// Granted, MemberNotFound, RoleNotFound and GrantFailed.
type RoleGrantResult interface {
	Kind() GrantResultKind
	isGrantResult()
}

type Granted struct {
	Member        MemberRef
	Role          RoleRef
	AlreadyMember bool
}

type MemberNotFound struct {
	ExternalUserID string
}

type RoleNotFound struct {
	RoleName string
}

type GrantFailed struct {
	Cause error
}

func (Granted) Kind() GrantResultKind        { return GrantGranted }
func (MemberNotFound) Kind() GrantResultKind { return GrantMemberNotFound }
func (RoleNotFound) Kind() GrantResultKind   { return GrantRoleNotFound }
func (GrantFailed) Kind() GrantResultKind    { return GrantFailedKind }

func (Granted) isGrantResult()        {}
func (MemberNotFound) isGrantResult() {}
func (RoleNotFound) isGrantResult()   {}
func (GrantFailed) isGrantResult()    {}
