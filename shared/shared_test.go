package shared_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"lodge/shared"
	"lodge/shared/constant"
)

func TestCalculateTotalPage(t *testing.T) {
	assert.Equal(t, 1, shared.CalculateTotalPage(0, 10))
	assert.Equal(t, 1, shared.CalculateTotalPage(10, 0))
	assert.Equal(t, 1, shared.CalculateTotalPage(10, 10))
	assert.Equal(t, 2, shared.CalculateTotalPage(11, 10))
	assert.Equal(t, 4, shared.CalculateTotalPage(31, 10))
}

func TestConvertStringToBool(t *testing.T) {
	assert.Nil(t, shared.ConvertStringToBool(""))
	assert.Nil(t, shared.ConvertStringToBool("maybe"))

	truthy := shared.ConvertStringToBool("true")
	if assert.NotNil(t, truthy) {
		assert.True(t, *truthy)
	}

	falsy := shared.ConvertStringToBool("false")
	if assert.NotNil(t, falsy) {
		assert.False(t, *falsy)
	}
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "booking:gets:*", shared.BuildCacheKey("booking:gets", constant.Asterix))
	assert.Equal(t, "limiter:1.2.3.4:agent", shared.BuildCacheKey("limiter", "1.2.3.4", "agent"))
}

func TestCanAccess(t *testing.T) {
	owner := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-1")
	stranger := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-2")

	admin := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
	admin = context.WithValue(admin, constant.ContextKeyUserRole, constant.RoleAdmin)

	assert.True(t, shared.CanAccess(owner, "user-1"))
	assert.False(t, shared.CanAccess(stranger, "user-1"))
	assert.True(t, shared.CanAccess(admin, "user-1"))

	// An anonymous owner id never matches anyone.
	assert.False(t, shared.CanAccess(context.Background(), ""))
}

func TestIsAdmin(t *testing.T) {
	admin := context.WithValue(context.Background(), constant.ContextKeyUserRole, constant.RoleAdmin)
	user := context.WithValue(context.Background(), constant.ContextKeyUserRole, constant.RoleUser)

	assert.True(t, shared.IsAdmin(admin))
	assert.False(t, shared.IsAdmin(user))
	assert.False(t, shared.IsAdmin(context.Background()))
}
