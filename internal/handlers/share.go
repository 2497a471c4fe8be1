package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/3Eeeecho/go-tinybox/internal/pkg/utils"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/xerr"
	"github.com/3Eeeecho/go-tinybox/internal/services/share"
	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

//go:embed templates/share.html
var templatesFS embed.FS

var sharePage = template.Must(template.ParseFS(templatesFS, "templates/share.html"))

const pageTimeLayout = "2006-01-02 15:04 MST"

type ShareHandler struct {
	shareService share.ShareService
}

func NewShareHandler(shareService share.ShareService) *ShareHandler {
	return &ShareHandler{shareService: shareService}
}

type CreateShareRequest struct {
	FileID      uint64  `json:"file_id" binding:"required"`
	ShareEmail  *string `json:"share_email" binding:"omitempty,email"`
	NeverExpire bool    `json:"never_expire"`
}

// CreateShare handles creation of a new share link.
// @Summary 创建分享链接
// @Description 为自己的文件创建分享链接，never_expire 为 true 时创建永久链接，否则 10 分钟后过期
// @Tags 分享
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateShareRequest true "分享链接信息"
// @Success 200 {object} xerr.Response{data=share.LinkResult} "分享链接创建成功"
// @Failure 400 {object} xerr.Response "请求参数无效"
// @Failure 404 {object} xerr.Response "文件未找到"
// @Router /api/v1/shares [post]
func (h *ShareHandler) CreateShare(c *gin.Context) {
	var req CreateShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "请求参数解析失败: "+err.Error())
		return
	}

	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return
	}

	link, err := h.shareService.CreateLink(c.Request.Context(), userID, req.FileID, req.ShareEmail, req.NeverExpire)
	if err != nil {
		xerr.ErrorFrom(c, err)
		return
	}
	xerr.Success(c, http.StatusOK, "分享链接创建成功", link)
}

// @Summary 列出文件的分享链接
// @Tags 分享
// @Produce json
// @Security BearerAuth
// @Param file_id path int true "文件ID"
// @Success 200 {object} xerr.Response{data=[]share.LinkResult}
// @Failure 404 {object} xerr.Response "文件未找到"
// @Router /api/v1/files/{file_id}/shares [get]
func (h *ShareHandler) ListFileShares(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return
	}
	fileID, ok := parseIDParam(c, "file_id")
	if !ok {
		return
	}

	links, err := h.shareService.ListLinks(c.Request.Context(), userID, fileID)
	if err != nil {
		xerr.ErrorFrom(c, err)
		return
	}
	xerr.Success(c, http.StatusOK, "获取分享链接成功", links)
}

// @Summary 续期分享链接
// @Description 重置创建时间，token 与地址不变
// @Tags 分享
// @Produce json
// @Security BearerAuth
// @Param share_id path int true "分享ID"
// @Success 200 {object} xerr.Response{data=share.LinkResult}
// @Failure 404 {object} xerr.Response "分享链接不存在"
// @Router /api/v1/shares/{share_id}/renew [put]
func (h *ShareHandler) RenewShare(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return
	}
	shareID, ok := parseIDParam(c, "share_id")
	if !ok {
		return
	}

	link, err := h.shareService.RenewLink(c.Request.Context(), userID, shareID)
	if err != nil {
		xerr.ErrorFrom(c, err)
		return
	}
	xerr.Success(c, http.StatusOK, "分享链接已续期", link)
}

// @Summary 撤销分享链接
// @Tags 分享
// @Produce json
// @Security BearerAuth
// @Param share_id path int true "分享ID"
// @Success 200 {object} xerr.Response
// @Router /api/v1/shares/{share_id} [delete]
func (h *ShareHandler) RevokeShare(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return
	}
	shareID, ok := parseIDParam(c, "share_id")
	if !ok {
		return
	}

	if err := h.shareService.RevokeLink(c.Request.Context(), userID, shareID); err != nil {
		xerr.ErrorFrom(c, err)
		return
	}
	xerr.Success(c, http.StatusOK, "分享链接已撤销", nil)
}

// @Summary 邮件发送分享链接
// @Tags 分享
// @Produce json
// @Security BearerAuth
// @Param share_id path int true "分享ID"
// @Success 200 {object} xerr.Response
// @Failure 404 {object} xerr.Response "分享链接不存在"
// @Failure 409 {object} xerr.Response "缺少收件人或发件人邮箱"
// @Failure 503 {object} xerr.Response "邮件服务未配置或发送失败"
// @Router /api/v1/shares/{share_id}/email [post]
func (h *ShareHandler) EmailShare(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return
	}
	shareID, ok := parseIDParam(c, "share_id")
	if !ok {
		return
	}

	if err := h.shareService.SendLinkByEmail(c.Request.Context(), userID, shareID); err != nil {
		xerr.ErrorFrom(c, err)
		return
	}
	xerr.Success(c, http.StatusOK, "邮件已发送", nil)
}

// @Summary 分享链接二维码
// @Tags 分享
// @Produce png
// @Security BearerAuth
// @Param share_id path int true "分享ID"
// @Param size query int false "边长像素，超出 128-1024 时取边界值，缺省 256"
// @Success 200 {file} binary
// @Failure 400 {object} xerr.Response "size 无效"
// @Failure 404 {object} xerr.Response "分享链接不存在"
// @Router /api/v1/shares/{share_id}/qrcode [get]
func (h *ShareHandler) ShareQRCode(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return
	}
	shareID, ok := parseIDParam(c, "share_id")
	if !ok {
		return
	}
	size := 0
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "无效的 size")
			return
		}
		size = n
	}

	png, err := h.shareService.QRCode(c.Request.Context(), userID, shareID, size)
	if err != nil {
		xerr.ErrorFrom(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// sharePageData 分享页模板数据
type sharePageData struct {
	Message string
	Hint    string

	FileName          string
	FileType          string
	FileSize          string
	OwnerName         string
	OwnerEmail        string
	RecipientEmail    string
	AccessNote        string
	SharedAt          string
	ExpiresAt         string
	IsPublic          bool
	Permanent         bool
	Expired           bool
	DownloadURL       string
	DownloadExpiresAt string
}

// @Summary 访问分享链接
// @Description 匿名访问，浏览器返回 HTML 页面，Accept 为 JSON 时返回解析结果
// @Tags 分享
// @Produce html,json
// @Param token path string true "分享 token"
// @Success 200 {object} xerr.Response{data=share.Resolution} "链接有效"
// @Failure 404 {object} xerr.Response "链接不存在"
// @Failure 410 {object} xerr.Response{data=share.Resolution} "链接已过期"
// @Failure 429 {object} xerr.Response "请求过于频繁"
// @Failure 503 {object} xerr.Response "存储服务不可用"
// @Router /share/{token} [get]
func (h *ShareHandler) ViewShare(c *gin.Context) {
	res, err := h.shareService.Resolve(c.Request.Context(), c.Param("token"))
	c.Header("Cache-Control", "no-store")

	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		switch {
		case err != nil:
			xerr.ErrorFrom(c, err)
		case res.State == share.StateExpired:
			xerr.JSONResponse(c, http.StatusGone, xerr.ShareExpiredCode, xerr.ErrShareExpired.Error(), res)
		default:
			xerr.Success(c, http.StatusOK, "ok", res)
		}
		return
	}

	if err != nil {
		status, _ := xerr.StatusOf(err)
		page := sharePageData{
			Message: "This share link does not exist",
			Hint:    "It may have been removed by the sender. Ask them for a new link.",
		}
		if status != http.StatusNotFound {
			page.Message = "This file is temporarily unavailable"
			page.Hint = "Please try again in a moment."
		}
		renderSharePage(c, status, page)
		return
	}

	status := http.StatusOK
	if res.State == share.StateExpired {
		status = http.StatusGone
	}
	renderSharePage(c, status, newSharePageData(res))
}

func renderSharePage(c *gin.Context, status int, data sharePageData) {
	c.Render(status, render.HTML{Template: sharePage, Name: "share.html", Data: data})
}

func newSharePageData(res *share.Resolution) sharePageData {
	page := sharePageData{
		FileName:    res.FileName,
		FileType:    res.MimeType,
		FileSize:    humanize.Bytes(res.Size),
		OwnerName:   res.OwnerName,
		OwnerEmail:  res.OwnerEmail,
		SharedAt:    formatPageTime(&res.SharedAt),
		ExpiresAt:   formatPageTime(res.ExpiresAt),
		IsPublic:    res.IsPublic,
		Permanent:   res.Permanent,
		Expired:     res.State == share.StateExpired,
		DownloadURL: res.DownloadURL,
	}
	if page.FileType == "" {
		page.FileType = "Unknown type"
	}
	if page.OwnerEmail == "" {
		page.OwnerEmail = "Email not provided"
	}
	if res.RecipientEmail != nil {
		page.RecipientEmail = *res.RecipientEmail
	}
	if res.DownloadExpiresAt != nil {
		page.DownloadExpiresAt = formatPageTime(res.DownloadExpiresAt)
	}

	switch {
	case res.IsPublic:
		page.AccessNote = "This file is public. Anyone with the link can download it."
	case res.Permanent:
		page.AccessNote = "This file is private. This share link stays active until the sender removes it."
	default:
		page.AccessNote = "This file is private. This share link grants temporary access."
	}
	return page
}

func formatPageTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(pageTimeLayout)
}
