package explorer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/3Eeeecho/go-tinybox/internal/models"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/sharelink"
)

var unsafeNameChars = regexp.MustCompile(`[^a-z0-9\-.]`)

// sanitizeFileName 只保留字母数字、点和短横线，其余替换为下划线并转小写
func sanitizeFileName(name string) string {
	return unsafeNameChars.ReplaceAllString(strings.ToLower(name), "_")
}

// objectName 对象名格式: <ownerID>/<毫秒时间戳>-<安全文件名>
func objectName(ownerID uint64, fileName string, now time.Time) string {
	return fmt.Sprintf("%d/%d-%s", ownerID, now.UnixMilli(), sanitizeFileName(fileName))
}

func toFileView(file *models.File, baseURL string, now time.Time) FileView {
	view := FileView{
		ID:        file.ID,
		Name:      file.Name,
		Size:      file.Size,
		MimeType:  file.MimeType,
		IsPublic:  file.IsPublic,
		PublicURL: file.PublicURL,
		CreatedAt: file.CreatedAt,
		Shares:    make([]ShareView, 0, len(file.Shares)),
	}
	for _, link := range file.Shares {
		view.Shares = append(view.Shares, ShareView{
			ID:             link.ID,
			URL:            sharelink.URL(baseURL, link.Token),
			RecipientEmail: link.RecipientEmail,
			CreatedAt:      link.CreatedAt,
			Status:         sharelink.StatusOf(link.Token, link.CreatedAt, now),
		})
	}
	return view
}
