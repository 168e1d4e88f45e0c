package handler

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fbresponse/internal/models"
	"fbresponse/internal/service"
	"fbresponse/internal/spreadsheet"
)

// Artifact names are generated server-side; anything else is rejected before
// touching the filesystem.
var artifactNameRe = regexp.MustCompile(`^facebook-responses-[0-9a-f-]{36}\.xlsx$`)

type BotHandler interface {
	UploadGuide(c *gin.Context)
	ProcessPosts(c *gin.Context)
	Download(c *gin.Context)
	GetRun(c *gin.Context)
	ListRuns(c *gin.Context)
}

type botHandler struct {
	responder   service.ResponderService
	outputDir   string
	maxUploadMB int64
	logger      *zap.Logger
}

func NewBotHandler(responder service.ResponderService, outputDir string, maxUploadMB int64, logger *zap.Logger) BotHandler {
	return &botHandler{
		responder:   responder,
		outputDir:   outputDir,
		maxUploadMB: maxUploadMB,
		logger:      logger,
	}
}

// UploadGuide handles POST /api/bot/upload-guide: a multipart xlsx upload of
// the reply guide, parsed and normalized into rules.
func (h *botHandler) UploadGuide(c *gin.Context) {
	fileHeader, err := c.FormFile("responseGuide")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "請上傳Excel文件"})
		return
	}

	if fileHeader.Size > h.maxUploadMB*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("文件大小超過 %dMB 限制", h.maxUploadMB)})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xlsx" && ext != ".xls" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "只允許上傳Excel文件 (.xlsx, .xls)"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded guide", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	result, err := h.responder.ParseGuide(file)
	if err != nil {
		if errors.Is(err, spreadsheet.ErrNoSheet) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel解析失敗: 找不到可讀取的工作表"})
			return
		}
		h.logger.Error("Failed to parse reply guide", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Excel解析失敗: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "回覆準則上傳成功",
		"data":          result.Rules,
		"rejected_rows": len(result.Rejected),
	})
}

type ProcessPostsRequest struct {
	PostURLs []string      `json:"post_urls" binding:"required"`
	Rules    []models.Rule `json:"rules" binding:"required"`
}

// ProcessPosts handles POST /api/bot/process-posts: scrape the given posts,
// classify every comment, resolve replies and produce the result sheet.
// Validation failures surface before any scraping work begins.
func (h *botHandler) ProcessPosts(c *gin.Context) {
	var req ProcessPostsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.responder.ProcessPosts(c.Request.Context(), req.PostURLs, req.Rules)
	if err != nil {
		if errors.Is(err, service.ErrNoPostURLs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "請提供有效的貼文連結"})
			return
		}
		if errors.Is(err, service.ErrEmptyRuleSet) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "請提供有效的回覆準則"})
			return
		}
		h.logger.Error("Failed to process posts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "處理完成",
		"data": gin.H{
			"run_id":         result.Run.ID,
			"total_comments": result.Run.TotalComments,
			"file_name":      result.Run.FileName,
			"download_url":   "/api/bot/download/" + result.Run.FileName,
			"post_errors":    result.PostErrors,
		},
	})
}

// Download handles GET /api/bot/download/:fileName for generated artifacts.
func (h *botHandler) Download(c *gin.Context) {
	fileName := c.Param("fileName")

	// Reject traversal attempts before the pattern check.
	if strings.Contains(fileName, "..") || strings.ContainsAny(fileName, `/\`) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的文件名稱"})
		return
	}
	if !artifactNameRe.MatchString(fileName) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的文件名稱格式"})
		return
	}

	path := filepath.Join(h.outputDir, fileName)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "文件不存在"})
		return
	}

	c.FileAttachment(path, fileName)
}

// GetRun handles GET /api/bot/runs/:id.
func (h *botHandler) GetRun(c *gin.Context) {
	run, err := h.responder.GetRun(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
			return
		}
		h.logger.Error("Failed to get run", zap.Error(err), zap.String("run_id", c.Param("id")))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get run"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": run})
}

// ListRuns handles GET /api/bot/runs.
func (h *botHandler) ListRuns(c *gin.Context) {
	runs, err := h.responder.ListRuns()
	if err != nil {
		h.logger.Error("Failed to list runs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get runs"})
		return
	}
	if runs == nil {
		runs = []*models.Run{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "total": len(runs)})
}
