package handlers

import (
	"net/http"

	"github.com/3Eeeecho/go-tinybox/internal/pkg/utils"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/xerr"
	"github.com/3Eeeecho/go-tinybox/internal/services/explorer"
	"github.com/gin-gonic/gin"
)

type FileHandler struct {
	fileService explorer.FileService
}

func NewFileHandler(fileService explorer.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

type VisibilityRequest struct {
	IsPublic *bool `json:"is_public" binding:"required"`
}

// @Summary 获取文件列表
// @Description 列出当前用户的全部文件及其分享链接状态
// @Tags 文件
// @Produce json
// @Security BearerAuth
// @Success 200 {object} xerr.Response{data=[]explorer.FileView}
// @Router /api/v1/files [get]
func (h *FileHandler) ListFiles(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return
	}

	files, err := h.fileService.ListFiles(c.Request.Context(), userID)
	if err != nil {
		xerr.ErrorFrom(c, err)
		return
	}
	xerr.Success(c, http.StatusOK, "Files retrieved successfully", files)
}

// @Summary 上传文件
// @Tags 文件
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "文件"
// @Param make_public formData bool false "是否公开"
// @Success 200 {object} xerr.Response{data=models.File}
// @Failure 400 {object} xerr.Response "参数错误或文件过大"
// @Failure 503 {object} xerr.Response "存储服务不可用"
// @Router /api/v1/files [post]
func (h *FileHandler) UploadFile(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "请选择要上传的文件")
		return
	}
	if fileHeader.Size > explorer.MaxUploadSize {
		xerr.ErrorFrom(c, xerr.ErrFileTooLarge)
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "读取上传文件失败")
		return
	}
	defer src.Close()

	makePublic := false
	switch c.PostForm("make_public") {
	case "true", "on", "1":
		makePublic = true
	}

	file, err := h.fileService.Upload(c.Request.Context(), userID, explorer.UploadInput{
		Name:        fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Reader:      src,
		MakePublic:  makePublic,
	})
	if err != nil {
		xerr.ErrorFrom(c, err)
		return
	}
	xerr.Success(c, http.StatusOK, "File uploaded successfully", file)
}

// @Summary 修改文件可见性
// @Tags 文件
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param file_id path int true "文件ID"
// @Param data body VisibilityRequest true "可见性"
// @Success 200 {object} xerr.Response{data=models.File}
// @Failure 404 {object} xerr.Response "文件不存在"
// @Router /api/v1/files/{file_id}/visibility [put]
func (h *FileHandler) SetVisibility(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return
	}
	fileID, ok := parseIDParam(c, "file_id")
	if !ok {
		return
	}

	var req VisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
		return
	}

	file, err := h.fileService.SetVisibility(c.Request.Context(), userID, fileID, *req.IsPublic)
	if err != nil {
		xerr.ErrorFrom(c, err)
		return
	}
	xerr.Success(c, http.StatusOK, "Visibility updated", file)
}

// @Summary 删除文件
// @Description 删除文件及其全部分享链接
// @Tags 文件
// @Produce json
// @Security BearerAuth
// @Param file_id path int true "文件ID"
// @Success 200 {object} xerr.Response
// @Failure 404 {object} xerr.Response "文件不存在"
// @Router /api/v1/files/{file_id} [delete]
func (h *FileHandler) DeleteFile(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return
	}
	fileID, ok := parseIDParam(c, "file_id")
	if !ok {
		return
	}

	if err := h.fileService.Delete(c.Request.Context(), userID, fileID); err != nil {
		xerr.ErrorFrom(c, err)
		return
	}
	xerr.Success(c, http.StatusOK, "File deleted", nil)
}
