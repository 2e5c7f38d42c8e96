package domain

import "context"

type CtxKey string

const (
	KeyIdentity  CtxKey = "Identity"
	KeyUserRole  CtxKey = "Role"
	KeyRequestID CtxKey = "RequestID"
)

// WithIdentity attaches the verified caller identity to ctx.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, KeyIdentity, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(KeyIdentity).(Identity)
	return identity, ok && identity.ID > 0
}

// WithRole records a role already resolved for this request.
func WithRole(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, KeyUserRole, role)
}

func RoleFromContext(ctx context.Context) (Role, bool) {
	role, ok := ctx.Value(KeyUserRole).(Role)
	return role, ok && role != ""
}
