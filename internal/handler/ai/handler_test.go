package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"

	aiclient "fabula/internal/ai"
	"fabula/internal/config"
	"fabula/internal/pkg/analytics"
	"fabula/internal/pkg/retry"
	"fabula/internal/pkg/vision"
	"fabula/internal/service"
)

type countingAnnotator struct {
	calls atomic.Int32
}

func (f *countingAnnotator) Annotate(ctx context.Context, image []byte, mimeType string) (*vision.Annotation, error) {
	f.calls.Add(1)
	return &vision.Annotation{Labels: []string{"beach"}, Objects: []string{"dog"}}, nil
}

type countingGenerator struct {
	calls      atomic.Int32
	lastPrompt string
	lastImages []aiclient.ImagePart
}

func (f *countingGenerator) GenerateNarrative(ctx context.Context, prompt string, images []aiclient.ImagePart) (string, error) {
	f.calls.Add(1)
	f.lastPrompt = prompt
	f.lastImages = images
	return "A quiet story.", nil
}

func newTestRouter(annotator vision.Annotator, generator aiclient.Generator) (*gin.Engine, *Handler) {
	gin.SetMode(gin.TestMode)

	narrativeSvc := service.NewNarrativeService(annotator, generator, retry.Policy{MaxAttempts: 1}, 5)
	analyticsClient := analytics.NewClient(&config.AnalyticsConfig{})
	h := NewHandler(narrativeSvc, nil, analyticsClient, 5)

	engine := gin.New()
	engine.POST("/ai/generate-narrative", h.GenerateNarrative)
	engine.POST("/ai/save-entry", h.SaveEntry)
	return engine, h
}

// multipartBody 构造带图片与表单字段的 multipart 请求体
func multipartBody(images map[string][][]byte, fields map[string]string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for field, blobs := range images {
		for i, blob := range blobs {
			part, _ := writer.CreateFormFile(field, "photo"+string(rune('a'+i))+".jpg")
			part.Write(blob)
		}
	}
	for k, v := range fields {
		writer.WriteField(k, v)
	}
	writer.Close()

	return body, writer.FormDataContentType()
}

func TestGenerateNarrativeEndpoint(t *testing.T) {
	Convey("没有图片时返回 400 且不调用外部服务", t, func() {
		annotator := &countingAnnotator{}
		generator := &countingGenerator{}
		engine, _ := newTestRouter(annotator, generator)

		body, contentType := multipartBody(nil, map[string]string{
			"lineCount":   "5",
			"perspective": "first",
			"tone":        "poetic",
		})

		req := httptest.NewRequest(http.MethodPost, "/ai/generate-narrative", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		So(w.Code, ShouldEqual, http.StatusBadRequest)
		So(w.Body.String(), ShouldContainSubstring, "error")
		So(annotator.calls.Load(), ShouldEqual, 0)
		So(generator.calls.Load(), ShouldEqual, 0)
	})

	Convey("两张图片的完整流程", t, func() {
		annotator := &countingAnnotator{}
		generator := &countingGenerator{}
		engine, _ := newTestRouter(annotator, generator)

		body, contentType := multipartBody(
			map[string][][]byte{"images": {{0x01}, {0x02}}},
			map[string]string{
				"lineCount":   "5",
				"perspective": "first",
				"tone":        "poetic",
				"context":     "sunset walk",
			})

		req := httptest.NewRequest(http.MethodPost, "/ai/generate-narrative", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		So(w.Code, ShouldEqual, http.StatusOK)
		So(annotator.calls.Load(), ShouldEqual, 2)
		So(generator.calls.Load(), ShouldEqual, 1)
		So(generator.lastImages, ShouldHaveLength, 2)
		So(generator.lastPrompt, ShouldContainSubstring, "poetic")
		So(generator.lastPrompt, ShouldContainSubstring, "sunset walk")

		var resp GenerateNarrativeResponse
		So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
		So(resp.Narrative, ShouldEqual, "A quiet story.")
		So(resp.ImageURL, ShouldStartWith, "data:")
		So(resp.LineCount, ShouldEqual, 5)
		So(resp.Perspective, ShouldEqual, "first")
		So(resp.Tone, ShouldEqual, "poetic")
	})

	Convey("单数字段 image 同样被接受", t, func() {
		annotator := &countingAnnotator{}
		generator := &countingGenerator{}
		engine, _ := newTestRouter(annotator, generator)

		body, contentType := multipartBody(
			map[string][][]byte{"image": {{0x01}}},
			map[string]string{
				"lineCount":   "3",
				"perspective": "third",
				"tone":        "formal",
			})

		req := httptest.NewRequest(http.MethodPost, "/ai/generate-narrative", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		So(w.Code, ShouldEqual, http.StatusOK)
		So(annotator.calls.Load(), ShouldEqual, 1)
	})

	Convey("非法 lineCount 返回 400", t, func() {
		annotator := &countingAnnotator{}
		generator := &countingGenerator{}
		engine, _ := newTestRouter(annotator, generator)

		body, contentType := multipartBody(
			map[string][][]byte{"images": {{0x01}}},
			map[string]string{
				"lineCount":   "zero",
				"perspective": "third",
				"tone":        "formal",
			})

		req := httptest.NewRequest(http.MethodPost, "/ai/generate-narrative", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		So(w.Code, ShouldEqual, http.StatusBadRequest)
		So(generator.calls.Load(), ShouldEqual, 0)
	})
}

func TestSaveEntryEndpoint(t *testing.T) {
	Convey("没有会话时返回 401 且不做任何处理", t, func() {
		annotator := &countingAnnotator{}
		generator := &countingGenerator{}
		engine, _ := newTestRouter(annotator, generator)

		body, contentType := multipartBody(
			map[string][][]byte{"images": {{0x01}}},
			map[string]string{"narrative": "A story."})

		req := httptest.NewRequest(http.MethodPost, "/ai/save-entry", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		So(w.Code, ShouldEqual, http.StatusUnauthorized)
		So(w.Body.String(), ShouldContainSubstring, "not_authed")
		So(annotator.calls.Load(), ShouldEqual, 0)
	})
}
