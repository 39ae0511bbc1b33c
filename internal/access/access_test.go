// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/critiq/internal/access"
	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/sec"
)

func principal(role sec.Role) *access.Principal {
	return &access.Principal{UserID: "usr-1", Username: "casey", Role: role}
}

func TestCanMutateContent(t *testing.T) {
	tests := []struct {
		name     string
		p        *access.Principal
		authorID string
		want     bool
	}{
		{"anonymous denied", nil, "usr-1", false},
		{"author allowed", principal(sec.RoleUser), "usr-1", true},
		{"other user denied", principal(sec.RoleUser), "usr-2", false},
		{"moderator allowed on others", principal(sec.RoleModerator), "usr-2", true},
		{"admin allowed on others", principal(sec.RoleAdmin), "usr-2", true},
		{
			"superuser with user role allowed on others",
			&access.Principal{UserID: "usr-1", Role: sec.RoleUser, Superuser: true},
			"usr-2",
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, access.CanMutateContent(tt.p, tt.authorID))
		})
	}
}

func TestCanManageCatalog(t *testing.T) {
	assert.False(t, access.CanManageCatalog(nil))
	assert.False(t, access.CanManageCatalog(principal(sec.RoleUser)))
	assert.False(t, access.CanManageCatalog(principal(sec.RoleModerator)))
	assert.True(t, access.CanManageCatalog(principal(sec.RoleAdmin)))

	su := &access.Principal{UserID: "usr-1", Role: sec.RoleUser, Superuser: true}
	assert.True(t, access.CanManageCatalog(su))
}

func TestCanAdministerUsers(t *testing.T) {
	assert.False(t, access.CanAdministerUsers(principal(sec.RoleModerator)))
	assert.True(t, access.CanAdministerUsers(principal(sec.RoleAdmin)))
}

func TestIsSelf(t *testing.T) {
	assert.False(t, access.IsSelf(nil, "usr-1"))
	assert.True(t, access.IsSelf(principal(sec.RoleUser), "usr-1"))
	assert.False(t, access.IsSelf(principal(sec.RoleUser), "usr-2"))
}

func TestRequire(t *testing.T) {
	t.Run("allowed returns nil", func(t *testing.T) {
		assert.NoError(t, access.Require(principal(sec.RoleUser), true))
	})

	t.Run("anonymous deny is unauthorized", func(t *testing.T) {
		err := access.Require(nil, false)
		require.Error(t, err)

		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusUnauthorized, appErr.HTTPStatus)
	})

	t.Run("authenticated deny is forbidden", func(t *testing.T) {
		err := access.Require(principal(sec.RoleUser), false)
		require.Error(t, err)

		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusForbidden, appErr.HTTPStatus)
	})
}
