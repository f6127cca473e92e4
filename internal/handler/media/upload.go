package media

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"fabula/internal/pkg/ctxutil"
	httpx "fabula/internal/pkg/http"
)

// Upload 上传一张设备图片到媒体库
// @Summary      上传媒体
// @Description  压缩后以 data URL 形式保存到当前用户的媒体库
// @Tags         媒体库
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  true  "图片文件"
// @Success      200  {object}  httpx.OKResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/media/upload [post]
func (h *Handler) Upload(c *gin.Context) {
	userID, _ := ctxutil.GetUserID(c.Request.Context())

	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No image uploaded"})
		return
	}

	file, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No image uploaded"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read image", Details: err.Error()})
		return
	}

	if _, err := h.mediaService.Upload(c.Request.Context(), userID, fh.Filename, data); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Upload failed", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, httpx.NewOKResponse())
}
