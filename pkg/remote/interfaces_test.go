package remote_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/tagrelease/pkg/remote"
)

// TestInterfaceMethodSignatures is a compile-time check that the store interfaces keep their shape
func TestInterfaceMethodSignatures(t *testing.T) {
	var _ interface {
		Name() string
		GetRepository(context.Context, string) (remote.ReleaseStore, error)
	} = (remote.Provider)(nil)

	var _ interface {
		CreateReleaseAsset(context.Context, int64, string, []byte, string, string) (*remote.Asset, error)
		DeleteReleaseAsset(context.Context, int64) error
	} = (remote.ReleaseAssetStore)(nil)

	var _ remote.ReleaseAssetStore = (remote.ReleaseStore)(nil)

	assert.True(t, true, "Interface method signatures verified")
}

type stubProvider struct{}

func (stubProvider) Name() string { return "stub" }

func (stubProvider) GetRepository(ctx context.Context, name string) (remote.ReleaseStore, error) {
	return nil, nil
}

func TestProviderRegistry(t *testing.T) {
	remote.RegisterProvider("stub", stubProvider{})

	t.Run("registered_provider", func(t *testing.T) {
		p, err := remote.GetProvider("stub")
		require.NoError(t, err, "getting a registered provider should not error")
		assert.Equal(t, "stub", p.Name(), "provider name should match")
	})

	t.Run("unknown_provider", func(t *testing.T) {
		_, err := remote.GetProvider("gitea")
		require.Error(t, err, "getting an unknown provider should error")
		assert.Contains(t, err.Error(), "provider gitea not found", "error should name the provider")
		assert.Contains(t, err.Error(), "stub", "error should list the options")
	})
}
