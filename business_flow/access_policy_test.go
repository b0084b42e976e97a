package businessflow_test

import (
	"testing"

	businessflow "github.com/carbridge/shipping-pricing/business_flow"
	"github.com/carbridge/shipping-pricing/models"
	"github.com/carbridge/shipping-pricing/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTarget(t *testing.T) {
	callerID := uuid.New()
	targetID := uuid.New()

	t.Run("UserActsOnSelf", func(t *testing.T) {
		actor := businessflow.Actor{UserID: callerID.String(), IsAdmin: false}
		scope, err := businessflow.ResolveTarget(actor, nil)
		require.NoError(t, err)
		assert.Equal(t, callerID, scope.UserID)
		assert.Equal(t, models.AdjustedByUser, scope.Role)
	})

	t.Run("UserCannotRedirectToAnotherUser", func(t *testing.T) {
		actor := businessflow.Actor{UserID: callerID.String(), IsAdmin: false}
		scope, err := businessflow.ResolveTarget(actor, utils.ToPtr(targetID.String()))
		require.NoError(t, err)
		assert.Equal(t, callerID, scope.UserID)
		assert.Equal(t, models.AdjustedByUser, scope.Role)
	})

	t.Run("AdminWithTargetActsThroughAdminComponent", func(t *testing.T) {
		actor := businessflow.Actor{UserID: callerID.String(), IsAdmin: true}
		scope, err := businessflow.ResolveTarget(actor, utils.ToPtr(targetID.String()))
		require.NoError(t, err)
		assert.Equal(t, targetID, scope.UserID)
		assert.Equal(t, models.AdjustedByAdmin, scope.Role)
	})

	t.Run("AdminWithoutTargetActsOnSelfAsUser", func(t *testing.T) {
		actor := businessflow.Actor{UserID: callerID.String(), IsAdmin: true}
		scope, err := businessflow.ResolveTarget(actor, nil)
		require.NoError(t, err)
		assert.Equal(t, callerID, scope.UserID)
		assert.Equal(t, models.AdjustedByUser, scope.Role)
	})

	t.Run("AdminWithBlankTargetActsOnSelf", func(t *testing.T) {
		actor := businessflow.Actor{UserID: callerID.String(), IsAdmin: true}
		scope, err := businessflow.ResolveTarget(actor, utils.ToPtr("  "))
		require.NoError(t, err)
		assert.Equal(t, callerID, scope.UserID)
		assert.Equal(t, models.AdjustedByUser, scope.Role)
	})

	t.Run("MissingIdentityRejected", func(t *testing.T) {
		_, err := businessflow.ResolveTarget(businessflow.Actor{}, nil)
		require.Error(t, err)
		assert.True(t, businessflow.IsIdentityRequired(err))
	})

	t.Run("MalformedIdentityRejected", func(t *testing.T) {
		_, err := businessflow.ResolveTarget(businessflow.Actor{UserID: "not-a-uuid"}, nil)
		require.Error(t, err)
		assert.True(t, businessflow.IsIdentityInvalid(err))
	})

	t.Run("MalformedTargetRejected", func(t *testing.T) {
		actor := businessflow.Actor{UserID: callerID.String(), IsAdmin: true}
		_, err := businessflow.ResolveTarget(actor, utils.ToPtr("not-a-uuid"))
		require.Error(t, err)
		assert.True(t, businessflow.IsTargetUserInvalid(err))
	})
}

func TestResolveListScope(t *testing.T) {
	callerID := uuid.New()
	targetID := uuid.New()

	t.Run("AdminWithoutTargetSeesAllUsers", func(t *testing.T) {
		actor := businessflow.Actor{UserID: callerID.String(), IsAdmin: true}
		scope, err := businessflow.ResolveListScope(actor, nil)
		require.NoError(t, err)
		assert.Nil(t, scope)
	})

	t.Run("AdminWithTargetPinnedToTarget", func(t *testing.T) {
		actor := businessflow.Actor{UserID: callerID.String(), IsAdmin: true}
		scope, err := businessflow.ResolveListScope(actor, utils.ToPtr(targetID.String()))
		require.NoError(t, err)
		require.NotNil(t, scope)
		assert.Equal(t, targetID, *scope)
	})

	t.Run("UserAlwaysPinnedToSelf", func(t *testing.T) {
		actor := businessflow.Actor{UserID: callerID.String(), IsAdmin: false}
		scope, err := businessflow.ResolveListScope(actor, utils.ToPtr(targetID.String()))
		require.NoError(t, err)
		require.NotNil(t, scope)
		assert.Equal(t, callerID, *scope)
	})

	t.Run("MissingIdentityRejected", func(t *testing.T) {
		_, err := businessflow.ResolveListScope(businessflow.Actor{IsAdmin: true}, nil)
		require.Error(t, err)
		assert.True(t, businessflow.IsIdentityRequired(err))
	})
}
