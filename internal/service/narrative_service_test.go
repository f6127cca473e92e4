package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"fabula/internal/ai"
	"fabula/internal/pkg/retry"
	"fabula/internal/pkg/vision"
)

// fakeAnnotator 记录调用次数的测试标注器
type fakeAnnotator struct {
	calls   atomic.Int32
	failAll bool
}

func (f *fakeAnnotator) Annotate(ctx context.Context, image []byte, mimeType string) (*vision.Annotation, error) {
	n := f.calls.Add(1)
	if f.failAll {
		return nil, errors.New("annotation backend unavailable")
	}
	return &vision.Annotation{
		Labels:  []string{fmt.Sprintf("label-%d", n)},
		Objects: []string{"object"},
	}, nil
}

// fakeGenerator 记录最后一次提示词与图片的测试生成器
type fakeGenerator struct {
	calls      atomic.Int32
	lastPrompt string
	lastImages []ai.ImagePart
	err        error
}

func (f *fakeGenerator) GenerateNarrative(ctx context.Context, prompt string, images []ai.ImagePart) (string, error) {
	f.calls.Add(1)
	f.lastPrompt = prompt
	f.lastImages = images
	if f.err != nil {
		return "", f.err
	}
	return "Line one.\nLine two.", nil
}

func newTestService(annotator vision.Annotator, generator ai.Generator) *NarrativeService {
	return NewNarrativeService(annotator, generator, retry.Policy{MaxAttempts: 1}, 5)
}

func TestGenerateRequestValidate(t *testing.T) {
	Convey("无图片时校验失败", t, func() {
		req := &GenerateRequest{LineCount: 3, Perspective: "first", Tone: "poetic"}
		So(req.Validate(5), ShouldEqual, ErrNoImages)
	})

	Convey("图片超出上限时校验失败", t, func() {
		req := &GenerateRequest{
			Images:      make([]NarrativeImage, 6),
			LineCount:   3,
			Perspective: "first",
			Tone:        "poetic",
		}
		So(req.Validate(5), ShouldEqual, ErrTooManyImages)
	})

	Convey("非法行数、视角、语气依次校验", t, func() {
		base := GenerateRequest{Images: []NarrativeImage{{Data: []byte{1}, MimeType: "image/jpeg"}}}

		req := base
		req.LineCount = 0
		req.Perspective = "first"
		req.Tone = "poetic"
		So(req.Validate(5), ShouldEqual, ErrInvalidLines)

		req = base
		req.LineCount = 3
		req.Perspective = "second"
		req.Tone = "poetic"
		So(req.Validate(5), ShouldEqual, ErrBadPerspective)

		req = base
		req.LineCount = 3
		req.Perspective = "third"
		req.Tone = "casual"
		So(req.Validate(5), ShouldEqual, ErrBadTone)
	})
}

func TestNarrativeServiceGenerate(t *testing.T) {
	Convey("N 张图片发起 N 次标注，描述包含 N 行", t, func() {
		annotator := &fakeAnnotator{}
		generator := &fakeGenerator{}
		svc := newTestService(annotator, generator)

		result, err := svc.Generate(context.Background(), &GenerateRequest{
			Images: []NarrativeImage{
				{Data: []byte{1}, MimeType: "image/jpeg"},
				{Data: []byte{2}, MimeType: "image/png"},
				{Data: []byte{3}, MimeType: "image/jpeg"},
			},
			LineCount:   5,
			Perspective: "first",
			Tone:        "poetic",
		})

		So(err, ShouldBeNil)
		So(annotator.calls.Load(), ShouldEqual, 3)
		So(generator.calls.Load(), ShouldEqual, 1)
		So(result.Narrative, ShouldNotBeEmpty)

		So(generator.lastPrompt, ShouldContainSubstring, "Image 1:")
		So(generator.lastPrompt, ShouldContainSubstring, "Image 2:")
		So(generator.lastPrompt, ShouldContainSubstring, "Image 3:")
		So(strings.Contains(generator.lastPrompt, "Image 4:"), ShouldBeFalse)
	})

	Convey("两张图片的典型场景", t, func() {
		annotator := &fakeAnnotator{}
		generator := &fakeGenerator{}
		svc := newTestService(annotator, generator)

		result, err := svc.Generate(context.Background(), &GenerateRequest{
			Images: []NarrativeImage{
				{Data: []byte{0xFF, 0xD8}, MimeType: "image/jpeg"},
				{Data: []byte{0x89, 0x50}, MimeType: "image/png"},
			},
			LineCount:   5,
			Perspective: "first",
			Tone:        "poetic",
			Context:     "sunset walk",
		})

		So(err, ShouldBeNil)
		So(generator.lastPrompt, ShouldContainSubstring, "poetic")
		So(generator.lastPrompt, ShouldContainSubstring, "first")
		So(generator.lastPrompt, ShouldContainSubstring, "5 lines")
		So(generator.lastPrompt, ShouldContainSubstring, "sunset walk")
		So(generator.lastImages, ShouldHaveLength, 2)
		So(generator.lastImages[0].MimeType, ShouldEqual, "image/jpeg")
		So(generator.lastImages[1].MimeType, ShouldEqual, "image/png")

		So(result.ImageURL, ShouldStartWith, "data:image/jpeg;base64,")
		So(result.LineCount, ShouldEqual, 5)
		So(result.Perspective, ShouldEqual, "first")
		So(result.Tone, ShouldEqual, "poetic")
	})

	Convey("上下文为空白时提示词不含上下文块", t, func() {
		annotator := &fakeAnnotator{}
		generator := &fakeGenerator{}
		svc := newTestService(annotator, generator)

		_, err := svc.Generate(context.Background(), &GenerateRequest{
			Images:      []NarrativeImage{{Data: []byte{1}, MimeType: "image/jpeg"}},
			LineCount:   3,
			Perspective: "third",
			Tone:        "formal",
			Context:     "   ",
		})

		So(err, ShouldBeNil)
		So(generator.lastPrompt, ShouldNotContainSubstring, "Additional context")
	})

	Convey("任一标注失败则整体失败，不调用生成", t, func() {
		annotator := &fakeAnnotator{failAll: true}
		generator := &fakeGenerator{}
		svc := newTestService(annotator, generator)

		result, err := svc.Generate(context.Background(), &GenerateRequest{
			Images: []NarrativeImage{
				{Data: []byte{1}, MimeType: "image/jpeg"},
				{Data: []byte{2}, MimeType: "image/jpeg"},
			},
			LineCount:   3,
			Perspective: "third",
			Tone:        "formal",
		})

		So(err, ShouldNotBeNil)
		So(result, ShouldBeNil)
		So(generator.calls.Load(), ShouldEqual, 0)
	})

	Convey("生成失败时返回错误", t, func() {
		annotator := &fakeAnnotator{}
		generator := &fakeGenerator{err: errors.New("model overloaded")}
		svc := newTestService(annotator, generator)

		result, err := svc.Generate(context.Background(), &GenerateRequest{
			Images:      []NarrativeImage{{Data: []byte{1}, MimeType: "image/jpeg"}},
			LineCount:   3,
			Perspective: "third",
			Tone:        "formal",
		})

		So(err, ShouldNotBeNil)
		So(result, ShouldBeNil)
	})

	Convey("瞬时错误按策略重试后成功", t, func() {
		annotator := &fakeAnnotator{}
		generator := &flakyGenerator{failures: 2}
		svc := NewNarrativeService(annotator, generator, retry.Policy{MaxAttempts: 3, BaseDelay: 1, MaxDelay: 1}, 5)

		result, err := svc.Generate(context.Background(), &GenerateRequest{
			Images:      []NarrativeImage{{Data: []byte{1}, MimeType: "image/jpeg"}},
			LineCount:   3,
			Perspective: "third",
			Tone:        "formal",
		})

		So(err, ShouldBeNil)
		So(result.Narrative, ShouldNotBeEmpty)
		So(generator.calls.Load(), ShouldEqual, 3)
	})
}

// flakyGenerator 前 failures 次调用返回瞬时错误
type flakyGenerator struct {
	calls    atomic.Int32
	failures int32
}

func (f *flakyGenerator) GenerateNarrative(ctx context.Context, prompt string, images []ai.ImagePart) (string, error) {
	if f.calls.Add(1) <= f.failures {
		return "", fmt.Errorf("%w: upstream overloaded", retry.ErrRetryable)
	}
	return "A single line.", nil
}
