package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/3Eeeecho/go-tinybox/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库每个连接独立，限制为单连接
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.File{}, &models.ShareLink{}))
	return db
}

func seedFile(t *testing.T, db *gorm.DB, ownerID uint64, name string) *models.File {
	t.Helper()
	f := &models.File{OwnerID: ownerID, Name: name, StoragePath: "obj/" + name}
	require.NoError(t, NewFileRepository(db).Create(context.Background(), f))
	return f
}

func seedShare(t *testing.T, db *gorm.DB, fileID, ownerID uint64, token string, createdAt time.Time) *models.ShareLink {
	t.Helper()
	s := &models.ShareLink{FileID: fileID, OwnerID: ownerID, Token: token, CreatedAt: createdAt}
	require.NoError(t, NewShareRepository(db).Create(context.Background(), s))
	return s
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	u := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, repo.CreateUser(ctx, u))
	require.NotZero(t, u.ID)

	got, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = repo.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	got, err = repo.GetUserByID(ctx, u.ID+100)
	require.NoError(t, err)
	assert.Nil(t, got)

	// 用户名唯一
	assert.Error(t, repo.CreateUser(ctx, &models.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"}))
}

func TestFileRepository_OwnerScoped(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewFileRepository(db)
	f := seedFile(t, db, 1, "a.txt")

	got, err := repo.FindByIDAndOwner(ctx, f.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "obj/a.txt", got.StoragePath)

	got, err = repo.FindByIDAndOwner(ctx, f.ID, 2)
	require.NoError(t, err)
	assert.Nil(t, got, "其他用户看不到该文件")

	url := "https://cdn.example.com/obj/a.txt"
	ok, err := repo.UpdateVisibility(ctx, f.ID, 2, true, &url)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.UpdateVisibility(ctx, f.ID, 1, true, &url)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = repo.FindByIDAndOwner(ctx, f.ID, 1)
	require.NoError(t, err)
	assert.True(t, got.IsPublic)
	require.NotNil(t, got.PublicURL)
	assert.Equal(t, url, *got.PublicURL)

	ok, err = repo.Delete(ctx, nil, f.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = repo.Delete(ctx, nil, f.ID, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileRepository_ListByOwnerPreloadsShares(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	f1 := seedFile(t, db, 1, "a.txt")
	seedFile(t, db, 1, "b.txt")
	seedFile(t, db, 2, "c.txt")

	now := time.Now().UTC()
	seedShare(t, db, f1.ID, 1, "tok-1", now.Add(-time.Minute))
	seedShare(t, db, f1.ID, 1, "perma_tok-2", now)

	files, err := NewFileRepository(db).ListByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, files, 2)

	var shares []models.ShareLink
	for _, f := range files {
		if f.ID == f1.ID {
			shares = f.Shares
		}
	}
	require.Len(t, shares, 2)
	assert.Equal(t, "perma_tok-2", shares[0].Token, "按创建时间倒序")
}

func TestShareRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewShareRepository(db)
	f := seedFile(t, db, 1, "a.txt")
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := seedShare(t, db, f.ID, 1, "tok-abc", created)

	got, err := repo.FindByToken(ctx, "tok-abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s.ID, got.ID)
	assert.True(t, created.Equal(got.CreatedAt))

	got, err = repo.FindByToken(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	// token 唯一
	assert.Error(t, repo.Create(ctx, &models.ShareLink{FileID: f.ID, OwnerID: 1, Token: "tok-abc", CreatedAt: created}))

	got, err = repo.FindByIDAndOwner(ctx, s.ID, 2)
	require.NoError(t, err)
	assert.Nil(t, got)

	renewed := created.Add(time.Hour)
	ok, err := repo.ResetCreatedAt(ctx, s.ID, 2, renewed)
	require.NoError(t, err)
	assert.False(t, ok, "非所有者不能续期")

	ok, err = repo.ResetCreatedAt(ctx, s.ID, 1, renewed)
	require.NoError(t, err)
	assert.True(t, ok)
	got, err = repo.FindByToken(ctx, "tok-abc")
	require.NoError(t, err)
	assert.True(t, renewed.Equal(got.CreatedAt))
	assert.Equal(t, "tok-abc", got.Token)

	list, err := repo.ListByFile(ctx, f.ID, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = repo.ListByFile(ctx, f.ID, 2)
	require.NoError(t, err)
	assert.Empty(t, list)

	ok, err = repo.Delete(ctx, s.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = repo.Delete(ctx, s.ID, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.Delete(ctx, s.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestShareRepository_DeleteByFileInTx(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	shares := NewShareRepository(db)
	files := NewFileRepository(db)
	f := seedFile(t, db, 1, "a.txt")
	seedShare(t, db, f.ID, 1, "t1", time.Now())
	seedShare(t, db, f.ID, 1, "t2", time.Now())

	err := db.Transaction(func(tx *gorm.DB) error {
		n, err := shares.DeleteByFile(ctx, tx, f.ID, 1)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
		ok, err := files.Delete(ctx, tx, f.ID, 1)
		require.NoError(t, err)
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, err)

	got, err := shares.FindByToken(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
