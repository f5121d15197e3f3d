package auth

import "context"

type PermissionChecker interface {
	CanApproveDocuments(userPermissions []string) bool
	CanRejectDocuments(userPermissions []string) bool
	CanManageRules(userPermissions []string) bool
	CanViewAllDocuments(userPermissions []string) bool
	HasAnyPermission(userPermissions []string, requiredPermissions []string) bool
	IsManager(userPermissions []string) bool
	IsAdmin(userPermissions []string) bool
}

type DefaultPermissionChecker struct{}

func NewPermissionChecker() PermissionChecker {
	return &DefaultPermissionChecker{}
}

func (c *DefaultPermissionChecker) HasPermission(ctx context.Context, userPermissions []string, permission string) (bool, error) {
	return c.HasAnyPermission(userPermissions, []string{permission}), nil
}

func (c *DefaultPermissionChecker) CanApproveDocumentsCtx(ctx context.Context, userPermissions []string) (bool, error) {
	return c.CanApproveDocuments(userPermissions), nil
}

func (c *DefaultPermissionChecker) CanRejectDocumentsCtx(ctx context.Context, userPermissions []string) (bool, error) {
	return c.CanRejectDocuments(userPermissions), nil
}

func (c *DefaultPermissionChecker) CanManageRulesCtx(ctx context.Context, userPermissions []string) (bool, error) {
	return c.CanManageRules(userPermissions), nil
}

func (c *DefaultPermissionChecker) IsManagerCtx(ctx context.Context, userPermissions []string) (bool, error) {
	return c.IsManager(userPermissions), nil
}

func (c *DefaultPermissionChecker) IsAdminCtx(ctx context.Context, userPermissions []string) (bool, error) {
	return c.IsAdmin(userPermissions), nil
}

func (c *DefaultPermissionChecker) CanApproveDocuments(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{"approve_documents", "admin"})
}

func (c *DefaultPermissionChecker) CanRejectDocuments(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{"reject_documents", "admin"})
}

func (c *DefaultPermissionChecker) CanManageRules(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{"manage_rules", "admin"})
}

func (c *DefaultPermissionChecker) CanViewAllDocuments(userPermissions []string) bool {
	managerPerms := []string{"admin", "approve_documents", "reject_documents", "manager"}
	return c.HasAnyPermission(userPermissions, managerPerms)
}

func (c *DefaultPermissionChecker) HasAnyPermission(userPermissions []string, requiredPermissions []string) bool {
	for _, userPerm := range userPermissions {
		for _, requiredPerm := range requiredPermissions {
			if userPerm == requiredPerm {
				return true
			}
		}
	}
	return false
}

func (c *DefaultPermissionChecker) IsManager(userPermissions []string) bool {
	managerPerms := []string{"manager", "admin", "approve_documents", "reject_documents"}
	return c.HasAnyPermission(userPermissions, managerPerms)
}

func (c *DefaultPermissionChecker) IsAdmin(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{"admin"})
}
