package utils

import (
	"context"

	"bitbucket.org/akitdaekm/membership_backend/appctx"
)

var (
	ContextKeyToken         = appctx.ContextKeyToken
	ContextKeyAdminId       = appctx.ContextKeyAdminId
	ContextKeyAdminRole     = appctx.ContextKeyAdminRole
	ContextKeyMemberId      = appctx.ContextKeyMemberId
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
)

func GetAdminIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyAdminId)
}

func GetAdminRoleFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyAdminRole)
}

func GetMemberIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyMemberId)
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func SetTokenInContext(ctx context.Context, token string) context.Context {
	return appctx.Set(ctx, ContextKeyToken, token)
}

func SetAdminIdInContext(ctx context.Context, adminId string) context.Context {
	return appctx.Set(ctx, ContextKeyAdminId, adminId)
}

func SetAdminRoleInContext(ctx context.Context, role string) context.Context {
	return appctx.Set(ctx, ContextKeyAdminRole, role)
}

func SetMemberIdInContext(ctx context.Context, memberId string) context.Context {
	return appctx.Set(ctx, ContextKeyMemberId, memberId)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}
