package tokenpool

import (
	"testing"

	"invoicevault-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPoolTest(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.PoolEntry{}))
	return db
}

func TestPushPop_StackOrder(t *testing.T) {
	db := setupPoolTest(t)

	for seq := uint64(0); seq < 3; seq++ {
		require.NoError(t, Push(db, 7, seq, 7_000_000+seq))
	}
	size, err := Size(db, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), size)

	// Last in, first out.
	for _, want := range []uint64{7_000_002, 7_000_001, 7_000_000} {
		got, err := Pop(db, 7)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestPop_EmptyPool(t *testing.T) {
	db := setupPoolTest(t)

	_, err := Pop(db, 7)
	var insufficient *domain.InsufficientTokensError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, uint64(1), insufficient.Requested)
	assert.Equal(t, uint64(0), insufficient.Available)
}

func TestPop_IsolatedPerInvoice(t *testing.T) {
	db := setupPoolTest(t)
	require.NoError(t, Push(db, 1, 0, 1_000_000))
	require.NoError(t, Push(db, 2, 0, 2_000_000))

	got, err := Pop(db, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), got)

	size, err := Size(db, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), size)
}
