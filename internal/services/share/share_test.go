package share

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/3Eeeecho/go-tinybox/internal/config"
	"github.com/3Eeeecho/go-tinybox/internal/models"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/metrics"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/sharelink"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/storage"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/xerr"
	"github.com/3Eeeecho/go-tinybox/internal/repositories"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const baseURL = "https://box.example.com"

// fakeStorage 每次签名返回不同的地址
type fakeStorage struct {
	signFn  func(objectName string, expiry time.Duration) (storage.SignedURL, error)
	signed  atomic.Int64
	removed []string
}

func (f *fakeStorage) PutObject(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) (storage.PutObjectResult, error) {
	return storage.PutObjectResult{Key: objectName, Size: objectSize}, nil
}

func (f *fakeStorage) RemoveObject(ctx context.Context, objectName string) error {
	f.removed = append(f.removed, objectName)
	return nil
}

func (f *fakeStorage) IsBucketExist(ctx context.Context) (bool, error) { return true, nil }

func (f *fakeStorage) MakeBucket(ctx context.Context) error { return nil }

func (f *fakeStorage) GetObjectURL(objectName string) string {
	return "https://cdn.example.com/files/" + objectName
}

func (f *fakeStorage) BucketName() string { return "files" }

func (f *fakeStorage) PreSignGetObjectURL(ctx context.Context, objectName string, expiry time.Duration) (storage.SignedURL, error) {
	if f.signFn != nil {
		return f.signFn(objectName, expiry)
	}
	n := f.signed.Add(1)
	return storage.SignedURL{
		URL:       fmt.Sprintf("https://cdn.example.com/files/%s?sig=%d", objectName, n),
		ExpiresAt: time.Now().Add(expiry),
	}, nil
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	enabled bool
	err     error
	sent    []sentMail
}

func (m *fakeMailer) Enabled() bool { return m.enabled }

func (m *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	db      *gorm.DB
	svc     *shareService
	storage *fakeStorage
	mailer  *fakeMailer
	metrics *metrics.Metrics
	clock   *clock
	owner   *models.User
	other   *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.File{}, &models.ShareLink{}))

	fullName := "Alice Liddell"
	owner := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x", FullName: &fullName}
	other := &models.User{Username: "mallory", Email: "mallory@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(owner).Error)
	require.NoError(t, db.Create(other).Error)

	f := &fixture{
		db:      db,
		storage: &fakeStorage{},
		mailer:  &fakeMailer{enabled: true},
		metrics: metrics.New(),
		clock:   &clock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
		owner:   owner,
		other:   other,
	}
	svc := NewShareService(
		repositories.NewShareRepository(db),
		repositories.NewFileRepository(db),
		repositories.NewUserRepository(db),
		f.storage,
		f.mailer,
		f.metrics,
		&config.Config{Server: config.ServerConfig{BaseURL: baseURL}},
	).(*shareService)
	svc.now = f.clock.Now
	f.svc = svc
	return f
}

func (f *fixture) seedFile(t *testing.T, ownerID uint64, name string) *models.File {
	t.Helper()
	mime := "text/plain"
	file := &models.File{OwnerID: ownerID, Name: name, StoragePath: fmt.Sprintf("%d/%s", ownerID, name), Size: 42, MimeType: &mime}
	require.NoError(t, f.db.Create(file).Error)
	return file
}

func tokenOf(t *testing.T, url string) string {
	t.Helper()
	prefix := baseURL + "/share/"
	require.True(t, strings.HasPrefix(url, prefix), url)
	return strings.TrimPrefix(url, prefix)
}

func TestCreateLink(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	file := f.seedFile(t, f.owner.ID, "report.pdf")
	recipient := "  bob@example.com "

	res, err := f.svc.CreateLink(ctx, f.owner.ID, file.ID, &recipient, false)
	require.NoError(t, err)

	token := tokenOf(t, res.URL)
	assert.False(t, sharelink.Decode(token))
	assert.Equal(t, sharelink.StateActive, res.Status.State)
	require.NotNil(t, res.Status.ExpiresAt)
	assert.True(t, f.clock.now.Add(sharelink.TTL).Equal(*res.Status.ExpiresAt))

	var row models.ShareLink
	require.NoError(t, f.db.Where("token = ?", token).First(&row).Error)
	require.NotNil(t, row.RecipientEmail)
	assert.Equal(t, "bob@example.com", *row.RecipientEmail)
	require.NotNil(t, row.OwnerName)
	assert.Equal(t, "Alice Liddell", *row.OwnerName)
	assert.Equal(t, "alice@example.com", *row.OwnerEmail)

	perm, err := f.svc.CreateLink(ctx, f.owner.ID, file.ID, nil, true)
	require.NoError(t, err)
	assert.True(t, sharelink.Decode(tokenOf(t, perm.URL)))
	assert.Equal(t, sharelink.StatePermanent, perm.Status.State)
	assert.Nil(t, perm.Status.ExpiresAt)
	assert.NotEqual(t, res.URL, perm.URL)
}

// 场景 D：为他人的文件创建链接返回 NotFound，且不写入任何记录
func TestCreateLink_NotOwner(t *testing.T) {
	f := newFixture(t)
	file := f.seedFile(t, f.owner.ID, "report.pdf")

	_, err := f.svc.CreateLink(context.Background(), f.other.ID, file.ID, nil, true)
	assert.ErrorIs(t, err, xerr.ErrNotFound)

	var count int64
	require.NoError(t, f.db.Model(&models.ShareLink{}).Count(&count).Error)
	assert.Zero(t, count)
}

// 场景 A：限时链接在 599 秒时可用，600 秒时过期
func TestResolve_TimedBoundary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	file := f.seedFile(t, f.owner.ID, "a.txt")
	res, err := f.svc.CreateLink(ctx, f.owner.ID, file.ID, nil, false)
	require.NoError(t, err)
	token := tokenOf(t, res.URL)

	f.clock.Advance(599 * time.Second)
	got, err := f.svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, StateResolved, got.State)
	assert.Contains(t, got.DownloadURL, "sig=")
	require.NotNil(t, got.DownloadExpiresAt)

	f.clock.Advance(time.Second)
	got, err = f.svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, StateExpired, got.State)
	assert.Empty(t, got.DownloadURL)
	assert.Equal(t, "a.txt", got.FileName, "过期时仍展示文件信息")
	assert.EqualValues(t, 1, f.storage.signed.Load(), "过期后不再签发下载地址")
}

// 场景 B：永久链接不过期，每次访问都签发新的短期地址
func TestResolve_PermanentSignsEveryTime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	file := f.seedFile(t, f.owner.ID, "a.txt")

	var expiries []time.Duration
	f.storage.signFn = func(objectName string, expiry time.Duration) (storage.SignedURL, error) {
		expiries = append(expiries, expiry)
		return storage.SignedURL{
			URL:       fmt.Sprintf("https://cdn.example.com/%s?n=%d", objectName, len(expiries)),
			ExpiresAt: f.clock.now.Add(expiry),
		}, nil
	}

	res, err := f.svc.CreateLink(ctx, f.owner.ID, file.ID, nil, true)
	require.NoError(t, err)
	token := tokenOf(t, res.URL)

	f.clock.Advance(1_000_000 * time.Second)
	first, err := f.svc.Resolve(ctx, token)
	require.NoError(t, err)
	second, err := f.svc.Resolve(ctx, token)
	require.NoError(t, err)

	assert.Equal(t, StateResolved, first.State)
	assert.True(t, first.Permanent)
	assert.Nil(t, first.ExpiresAt)
	assert.NotEqual(t, first.DownloadURL, second.DownloadURL)
	assert.Equal(t, []time.Duration{sharelink.TTL, sharelink.TTL}, expiries)
}

// 场景 C：撤销后立即访问返回 NotFound
func TestRevokeThenResolve(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	file := f.seedFile(t, f.owner.ID, "a.txt")
	res, err := f.svc.CreateLink(ctx, f.owner.ID, file.ID, nil, false)
	require.NoError(t, err)

	require.NoError(t, f.svc.RevokeLink(ctx, f.owner.ID, res.ID))
	_, err = f.svc.Resolve(ctx, tokenOf(t, res.URL))
	assert.ErrorIs(t, err, xerr.ErrNotFound)

	// 重复撤销不报错
	assert.NoError(t, f.svc.RevokeLink(ctx, f.owner.ID, res.ID))
}

func TestRevokeLink_OtherOwnerCannotDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	file := f.seedFile(t, f.owner.ID, "a.txt")
	res, err := f.svc.CreateLink(ctx, f.owner.ID, file.ID, nil, false)
	require.NoError(t, err)

	require.NoError(t, f.svc.RevokeLink(ctx, f.other.ID, res.ID))
	got, err := f.svc.Resolve(ctx, tokenOf(t, res.URL))
	require.NoError(t, err)
	assert.Equal(t, StateResolved, got.State)
}

// 场景 E：文件改为公开后，未过期的链接返回公开地址
func TestResolve_PublicFileUsesPublicURL(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	file := f.seedFile(t, f.owner.ID, "a.txt")
	res, err := f.svc.CreateLink(ctx, f.owner.ID, file.ID, nil, false)
	require.NoError(t, err)

	public := "https://cdn.example.com/files/1/a.txt"
	ok, err := repositories.NewFileRepository(f.db).UpdateVisibility(ctx, file.ID, f.owner.ID, true, &public)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := f.svc.Resolve(ctx, tokenOf(t, res.URL))
	require.NoError(t, err)
	assert.Equal(t, StateResolved, got.State)
	assert.Equal(t, public, got.DownloadURL)
	assert.Nil(t, got.DownloadExpiresAt)
	assert.Zero(t, f.storage.signed.Load())
}

// 场景 F：同一时刻创建的永久与限时链接，TTL 之后只有限时链接过期
func TestResolve_MixedLinks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	file := f.seedFile(t, f.owner.ID, "a.txt")
	timed, err := f.svc.CreateLink(ctx, f.owner.ID, file.ID, nil, false)
	require.NoError(t, err)
	perm, err := f.svc.CreateLink(ctx, f.owner.ID, file.ID, nil, true)
	require.NoError(t, err)

	f.clock.Advance(sharelink.TTL)

	got, err := f.svc.Resolve(ctx, tokenOf(t, timed.URL))
	require.NoError(t, err)
	assert.Equal(t, StateExpired, got.State)

	got, err = f.svc.Resolve(ctx, tokenOf(t, perm.URL))
	require.NoError(t, err)
	assert.Equal(t, StateResolved, got.State)

	links, err := f.svc.ListLinks(ctx, f.owner.ID, file.ID)
	require.NoError(t, err)
	require.Len(t, links, 2)
	states := map[sharelink.State]bool{}
	for _, l := range links {
		states[l.Status.State] = true
	}
	assert.True(t, states[sharelink.StateExpired])
	assert.True(t, states[sharelink.StatePermanent])
}

func TestResolve_SigningFailureIsUnavailable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	file := f.seedFile(t, f.owner.ID, "a.txt")
	res, err := f.svc.CreateLink(ctx, f.owner.ID, file.ID, nil, true)
	require.NoError(t, err)

	f.storage.signFn = func(string, time.Duration) (storage.SignedURL, error) {
		return storage.SignedURL{}, errors.New("storage down")
	}
	_, err = f.svc.Resolve(ctx, tokenOf(t, res.URL))
	assert.ErrorIs(t, err, xerr.ErrUnavailable)
	assert.ErrorContains(t, err, "storage down")
}

func TestResolve_FileOwnershipChanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	file := f.seedFile(t, f.owner.ID, "a.txt")
	res, err := f.svc.CreateLink(ctx, f.owner.ID, file.ID, nil, true)
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&models.File{}).Where("id = ?", file.ID).Update("owner_id", f.other.ID).Error)
	_, err = f.svc.Resolve(ctx, tokenOf(t, res.URL))
	assert.ErrorIs(t, err, xerr.ErrNotFound)
}

func TestResolve_UnknownToken(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, xerr.ErrNotFound)
	_, err = f.svc.Resolve(context.Background(), "perma_doesnotexist")
	assert.ErrorIs(t, err, xerr.ErrNotFound)
}

// brokenShareRepo 模拟按 token 查询时数据库故障
type brokenShareRepo struct {
	repositories.ShareRepository
}

func (brokenShareRepo) FindByToken(ctx context.Context, token string) (*models.ShareLink, error) {
	return nil, errors.New("sql: database is closed")
}

// brokenFileRepo 模拟按所有者查询文件时数据库故障
type brokenFileRepo struct {
	repositories.FileRepository
}

func (brokenFileRepo) FindByIDAndOwner(ctx context.Context, id, ownerID uint64) (*models.File, error) {
	return nil, errors.New("sql: database is closed")
}

func scrapeMetrics(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return w.Body.String()
}

func TestResolve_LookupFailureLooksLikeNotFound(t *testing.T) {
	ctx := context.Background()

	t.Run("share lookup", func(t *testing.T) {
		f := newFixture(t)
		f.svc.shareRepo = brokenShareRepo{ShareRepository: f.svc.shareRepo}

		res, err := f.svc.Resolve(ctx, "perma_anything")
		assert.Nil(t, res)
		assert.ErrorIs(t, err, xerr.ErrNotFound)
		assert.Equal(t, xerr.ErrShareNotFound.Error(), err.Error())
		assert.NotContains(t, err.Error(), "database is closed")
		assert.Contains(t, scrapeMetrics(t, f.metrics), `tinybox_share_resolutions_total{outcome="not_found"} 1`)
	})

	t.Run("file lookup", func(t *testing.T) {
		f := newFixture(t)
		file := f.seedFile(t, f.owner.ID, "a.txt")
		link, err := f.svc.CreateLink(ctx, f.owner.ID, file.ID, nil, true)
		require.NoError(t, err)
		f.svc.fileRepo = brokenFileRepo{FileRepository: f.svc.fileRepo}

		res, err := f.svc.Resolve(ctx, tokenOf(t, link.URL))
		assert.Nil(t, res)
		assert.ErrorIs(t, err, xerr.ErrNotFound)
		assert.Equal(t, xerr.ErrFileNotFound.Error(), err.Error())
		assert.Contains(t, scrapeMetrics(t, f.metrics), `tinybox_share_resolutions_total{outcome="not_found"} 1`)
	})
}

func TestRenewLink(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	file := f.seedFile(t, f.owner.ID, "a.txt")
	res, err := f.svc.CreateLink(ctx, f.owner.ID, file.ID, nil, false)
	require.NoError(t, err)
	token := tokenOf(t, res.URL)

	f.clock.Advance(sharelink.TTL + time.Minute)
	got, err := f.svc.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, StateExpired, got.State)

	renewed, err := f.svc.RenewLink(ctx, f.owner.ID, res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.URL, renewed.URL, "续期不改变 token")
	require.NotNil(t, renewed.Status.ExpiresAt)
	assert.True(t, renewed.Status.ExpiresAt.After(*res.Status.ExpiresAt))
	assert.Equal(t, sharelink.StateActive, renewed.Status.State)

	got, err = f.svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, StateResolved, got.State)

	_, err = f.svc.RenewLink(ctx, f.other.ID, res.ID)
	assert.ErrorIs(t, err, xerr.ErrShareNotFound)
	_, err = f.svc.RenewLink(ctx, f.owner.ID, res.ID+100)
	assert.ErrorIs(t, err, xerr.ErrNotFound)
}

func TestSendLinkByEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	file := f.seedFile(t, f.owner.ID, "report.pdf")
	recipient := "bob@example.com"
	res, err := f.svc.CreateLink(ctx, f.owner.ID, file.ID, &recipient, false)
	require.NoError(t, err)

	require.NoError(t, f.svc.SendLinkByEmail(ctx, f.owner.ID, res.ID))
	require.Len(t, f.mailer.sent, 1)
	mail := f.mailer.sent[0]
	assert.Equal(t, recipient, mail.to)
	assert.Equal(t, `Alice Liddell shared "report.pdf" with you`, mail.subject)
	assert.Contains(t, mail.body, res.URL)
}

func TestSendLinkByEmail_Failures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	file := f.seedFile(t, f.owner.ID, "report.pdf")

	noRecipient, err := f.svc.CreateLink(ctx, f.owner.ID, file.ID, nil, false)
	require.NoError(t, err)
	err = f.svc.SendLinkByEmail(ctx, f.owner.ID, noRecipient.ID)
	assert.ErrorIs(t, err, xerr.ErrInvalidState)
	assert.ErrorIs(t, err, xerr.ErrRecipientMissing)

	recipient := "bob@example.com"
	withRecipient, err := f.svc.CreateLink(ctx, f.owner.ID, file.ID, &recipient, false)
	require.NoError(t, err)

	err = f.svc.SendLinkByEmail(ctx, f.other.ID, withRecipient.ID)
	assert.ErrorIs(t, err, xerr.ErrNotFound)

	f.mailer.enabled = false
	err = f.svc.SendLinkByEmail(ctx, f.owner.ID, withRecipient.ID)
	assert.ErrorIs(t, err, xerr.ErrUnavailable)
	assert.ErrorIs(t, err, xerr.ErrEmailNotConfigured)

	f.mailer.enabled = true
	f.mailer.err = errors.New("smtp refused")
	err = f.svc.SendLinkByEmail(ctx, f.owner.ID, withRecipient.ID)
	assert.ErrorIs(t, err, xerr.ErrUnavailable)
	assert.ErrorContains(t, err, "smtp refused")
}

func TestListLinks_NotOwner(t *testing.T) {
	f := newFixture(t)
	file := f.seedFile(t, f.owner.ID, "a.txt")
	_, err := f.svc.ListLinks(context.Background(), f.other.ID, file.ID)
	assert.ErrorIs(t, err, xerr.ErrNotFound)
}

func TestQRCode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	file := f.seedFile(t, f.owner.ID, "a.txt")
	res, err := f.svc.CreateLink(ctx, f.owner.ID, file.ID, nil, true)
	require.NoError(t, err)

	png, err := f.svc.QRCode(ctx, f.owner.ID, res.ID, 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(png), "\x89PNG"))

	_, err = f.svc.QRCode(ctx, f.other.ID, res.ID, 0)
	assert.ErrorIs(t, err, xerr.ErrNotFound)
}

func TestOwnerDisplay(t *testing.T) {
	name, email := "  ", "alice@example.com"
	n, e := ownerDisplay(&name, &email)
	assert.Equal(t, "alice@example.com", n)
	assert.Equal(t, "alice@example.com", e)

	n, e = ownerDisplay(nil, nil)
	assert.Equal(t, unknownOwner, n)
	assert.Empty(t, e)
}
