package media

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fabula/internal/pkg/ctxutil"
	httpx "fabula/internal/pkg/http"
	"fabula/internal/service"
)

// ImportRequest 媒体导入请求
type ImportRequest struct {
	GooglePhotoID string `json:"googlePhotoId"`
	GoogleURL     string `json:"googleUrl" binding:"required"`
	Filename      string `json:"filename"`
	MimeType      string `json:"mimeType"`
}

// Import 从 Google 相册导入一张图片
// @Summary      导入媒体
// @Description  使用会话中的 access token 拉取远端图片，压缩后保存到媒体库
// @Tags         媒体库
// @Accept       json
// @Produce      json
// @Param        request  body      ImportRequest  true  "导入请求"
// @Success      200  {object}  httpx.OKResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/media/import [post]
func (h *Handler) Import(c *gin.Context) {
	userID, _ := ctxutil.GetUserID(c.Request.Context())

	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing Google Photo URL"})
		return
	}

	var accessToken string
	if sess, ok := ctxutil.GetSession(c.Request.Context()); ok && sess.Tokens != nil {
		accessToken = sess.Tokens.AccessToken
	}

	_, err := h.mediaService.Import(c.Request.Context(), userID, &service.ImportRequest{
		SourceID:    req.GooglePhotoID,
		URL:         req.GoogleURL,
		Filename:    req.Filename,
		MimeType:    req.MimeType,
		AccessToken: accessToken,
	})
	if err != nil {
		if errors.Is(err, service.ErrMissingPhotoURL) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing Google Photo URL"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Import failed", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, httpx.NewOKResponse())
}
