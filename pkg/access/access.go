// Package access implements a two-role access control scheme: an ADMIN
// role gating reserve initialization, pause, and freeze, and a
// declared-but-unenforced LIQUIDATOR role (liquidation stays open to all
// callers).
package access

import (
	"sync"

	"github.com/palaseus/adrenolend/pkg/poolerr"
	"github.com/palaseus/adrenolend/pkg/types"
)

// Role identifies a capability grantable to an account.
type Role string

const (
	// RoleAdmin gates initializeReserve, freeze/unfreeze, pause/unpause.
	RoleAdmin Role = "admin"
	// RoleLiquidator is declared for completeness but never checked —
	// liquidation is open to all accounts.
	RoleLiquidator Role = "liquidator"
)

// Registry is a minimal in-memory role registry.
type Registry struct {
	mu    sync.RWMutex
	roles map[types.AccountID]map[Role]bool
}

// NewRegistry bootstraps a registry with a single default admin.
func NewRegistry(defaultAdmin types.AccountID) *Registry {
	r := &Registry{roles: make(map[types.AccountID]map[Role]bool)}
	r.Grant(defaultAdmin, RoleAdmin)
	return r
}

// Grant gives an account a role.
func (r *Registry) Grant(account types.AccountID, role Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.roles[account] == nil {
		r.roles[account] = make(map[Role]bool)
	}
	r.roles[account][role] = true
}

// Revoke removes a role from an account.
func (r *Registry) Revoke(account types.AccountID, role Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if roles, ok := r.roles[account]; ok {
		delete(roles, role)
	}
}

// Has reports whether an account holds a role.
func (r *Registry) Has(account types.AccountID, role Role) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	roles, ok := r.roles[account]
	if !ok {
		return false
	}
	return roles[role]
}

// RequireAdmin returns poolerr.ErrUnauthorized unless the account holds
// RoleAdmin.
func (r *Registry) RequireAdmin(account types.AccountID) error {
	if !r.Has(account, RoleAdmin) {
		return poolerr.ErrUnauthorized
	}
	return nil
}
