package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"fabula/internal/ai"
	"fabula/internal/pkg/imaging"
	"fabula/internal/pkg/retry"
	"fabula/internal/pkg/storytools"
	"fabula/internal/pkg/vision"
)

var (
	ErrNoImages       = errors.New("至少需要一张图片")
	ErrTooManyImages  = errors.New("图片数量超出上限")
	ErrInvalidLines   = errors.New("行数必须为正整数")
	ErrBadPerspective = errors.New("视角只支持 first 或 third")
	ErrBadTone        = errors.New("语气只支持 formal 或 poetic")
)

// NarrativeImage 一张待处理的图片
type NarrativeImage struct {
	Data     []byte
	MimeType string
}

// GenerateRequest 叙事生成请求
type GenerateRequest struct {
	Images      []NarrativeImage
	LineCount   int
	Perspective string // first 或 third
	Tone        string // formal 或 poetic
	Context     string // 可选的自由文本
}

// GenerateResult 叙事生成结果
type GenerateResult struct {
	Narrative   string
	ImageURL    string // 首图 data URL（兼容字段）
	LineCount   int
	Perspective string
	Tone        string
}

// NarrativeService 叙事生成服务
// 流程: 并发标注所有图片 -> 聚合描述 -> 构建提示词 -> 单次多模态生成
type NarrativeService struct {
	annotator   vision.Annotator
	generator   ai.Generator
	retryPolicy retry.Policy
	maxImages   int
}

// NewNarrativeService 创建叙事生成服务
func NewNarrativeService(annotator vision.Annotator, generator ai.Generator, retryPolicy retry.Policy, maxImages int) *NarrativeService {
	return &NarrativeService{
		annotator:   annotator,
		generator:   generator,
		retryPolicy: retryPolicy,
		maxImages:   maxImages,
	}
}

// Validate 校验请求参数
func (r *GenerateRequest) Validate(maxImages int) error {
	if len(r.Images) == 0 {
		return ErrNoImages
	}
	if maxImages > 0 && len(r.Images) > maxImages {
		return ErrTooManyImages
	}
	if r.LineCount <= 0 {
		return ErrInvalidLines
	}
	if r.Perspective != "first" && r.Perspective != "third" {
		return ErrBadPerspective
	}
	if r.Tone != "formal" && r.Tone != "poetic" {
		return ErrBadTone
	}
	return nil
}

// Generate 生成照片故事
// 任意一张图片标注失败则整个请求失败，不返回部分结果
func (s *NarrativeService) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	if err := req.Validate(s.maxImages); err != nil {
		return nil, err
	}

	annotations, err := s.annotateAll(ctx, req.Images)
	if err != nil {
		return nil, err
	}

	description := storytools.DescribeImages(annotations)
	log.Debug().Int("image_count", len(req.Images)).Str("description", description).Msg("aggregated image descriptions")

	prompt := storytools.BuildNarrativePrompt(storytools.PromptParams{
		Tone:        req.Tone,
		Perspective: req.Perspective,
		LineCount:   req.LineCount,
		Description: description,
		Context:     req.Context,
	})

	parts := make([]ai.ImagePart, 0, len(req.Images))
	for _, img := range req.Images {
		parts = append(parts, ai.ImagePart{Data: img.Data, MimeType: img.MimeType})
	}

	var narrative string
	genStart := time.Now()
	err = retry.Do(ctx, s.retryPolicy, func(ctx context.Context) error {
		var genErr error
		narrative, genErr = s.generator.GenerateNarrative(ctx, prompt, parts)
		return genErr
	})
	if err != nil {
		log.Error().Err(err).Dur("duration", time.Since(genStart)).Msg("narrative generation failed")
		return nil, fmt.Errorf("failed to generate narrative: %w", err)
	}
	log.Info().
		Int("image_count", len(req.Images)).
		Int("narrative_length", len(narrative)).
		Dur("duration", time.Since(genStart)).
		Msg("narrative generated")

	return &GenerateResult{
		Narrative:   narrative,
		ImageURL:    imaging.DataURL(req.Images[0].Data, req.Images[0].MimeType),
		LineCount:   req.LineCount,
		Perspective: req.Perspective,
		Tone:        req.Tone,
	}, nil
}

// annotateAll 并发标注所有图片
// 结果按输入顺序写入对应下标，聚合时顺序与提交顺序一致
func (s *NarrativeService) annotateAll(ctx context.Context, images []NarrativeImage) ([]*vision.Annotation, error) {
	annotations := make([]*vision.Annotation, len(images))

	var wg sync.WaitGroup
	errCh := make(chan error, len(images))

	for i, img := range images {
		wg.Add(1)
		go func(index int, img NarrativeImage) {
			defer wg.Done()

			ann, err := s.annotator.Annotate(ctx, img.Data, img.MimeType)
			if err != nil {
				log.Error().Err(err).Int("image_index", index).Msg("image annotation failed")
				errCh <- fmt.Errorf("failed to annotate image %d: %w", index+1, err)
				return
			}
			annotations[index] = ann
		}(i, img)
	}

	wg.Wait()
	close(errCh)

	if err := <-errCh; err != nil {
		return nil, err
	}

	return annotations, nil
}
