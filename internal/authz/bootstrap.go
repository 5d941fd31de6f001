package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			// 所有登录角色均可查看订单，范围由业务层按身份收敛
			Role: "order_viewer",
			Policies: []Policy{
				{Object: "/orders", Action: "GET"},
				{Object: "/orders/:id", Action: "GET"},
				{Object: "/orders/no/:order_no", Action: "GET"},
			},
		},
		{
			Role:     "customer",
			Inherits: []string{"order_viewer"},
			Policies: []Policy{
				{Object: "/orders", Action: "POST"},
				{Object: "/orders/preview", Action: "POST"},
				{Object: "/orders/:id/cancel", Action: "POST"},
				{Object: "/orders/:id/rating", Action: "POST"},
				{Object: "/promo-codes/validate", Action: "POST"},
			},
		},
		{
			Role:     "vendor",
			Inherits: []string{"order_viewer"},
			Policies: []Policy{
				{Object: "/orders/:id", Action: "PATCH"},
				{Object: "/orders/:id/cancel", Action: "POST"},
			},
		},
		{
			Role:     "delivery",
			Inherits: []string{"order_viewer"},
			Policies: []Policy{
				{Object: "/delivery/orders", Action: "GET"},
				{Object: "/delivery/orders/nearby", Action: "GET"},
				{Object: "/delivery/actions", Action: "POST"},
				{Object: "/delivery/earnings", Action: "GET"},
				{Object: "/delivery/earnings/daily", Action: "GET"},
				{Object: "/delivery/rating", Action: "GET"},
			},
		},
		{
			Role: "admin",
			Policies: []Policy{
				{Object: "/*", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return err
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
