package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"fabula/internal/model/story"
	"fabula/internal/pkg/id"
	"fabula/internal/pkg/imaging"
	"fabula/internal/pkg/storage"
	storyRepo "fabula/internal/repository/story"
)

var (
	ErrEmptyNarrative = errors.New("叙事内容不能为空")
	ErrStoryNotFound  = errors.New("故事不存在")
)

// StoryService 照片故事服务
// 图片压缩后以 data URL 形式内嵌入文档，可选地将原图备份到对象存储
type StoryService struct {
	entryRepo *storyRepo.EntryRepo
	optimizer *imaging.Optimizer
	store     storage.Storage // 可为 nil，表示不留存原图
}

// NewStoryService 创建照片故事服务
func NewStoryService(entryRepo *storyRepo.EntryRepo, optimizer *imaging.Optimizer, store storage.Storage) *StoryService {
	return &StoryService{
		entryRepo: entryRepo,
		optimizer: optimizer,
		store:     store,
	}
}

// SaveEntry 保存一条照片故事
// 每张图片先压缩再编码为 data URL，首图另存入兼容字段
func (s *StoryService) SaveEntry(ctx context.Context, userID, narrative string, images []NarrativeImage) (*story.Entry, error) {
	if narrative == "" {
		return nil, ErrEmptyNarrative
	}
	if len(images) == 0 {
		return nil, ErrNoImages
	}

	dataURLs := make([]string, 0, len(images))
	for i, img := range images {
		dataURL, err := s.optimizer.OptimizeToDataURL(img.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to process image %d: %w", i+1, err)
		}
		dataURLs = append(dataURLs, dataURL)
	}

	entry := &story.Entry{
		ID:        id.New(),
		UserID:    userID,
		Narrative: narrative,
		Image:     dataURLs[0],
		Images:    dataURLs,
	}

	if err := s.entryRepo.Create(ctx, entry); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to save story entry")
		return nil, err
	}

	s.retainOriginals(ctx, entry.ID, images)

	log.Info().Str("entry_id", entry.ID).Str("user_id", userID).Int("image_count", len(images)).Msg("story entry saved")
	return entry, nil
}

// retainOriginals 将原图备份到对象存储
// 备份失败只记录日志，不影响保存结果
func (s *StoryService) retainOriginals(ctx context.Context, entryID string, images []NarrativeImage) {
	if s.store == nil {
		return
	}

	for i, img := range images {
		key := fmt.Sprintf("stories/%s/%d", entryID, i+1)
		if _, err := s.store.Upload(ctx, key, bytes.NewReader(img.Data), img.MimeType); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to retain original image")
		}
	}
}

// ListEntries 查询用户的全部故事，按创建时间倒序
func (s *StoryService) ListEntries(ctx context.Context, userID string) ([]*story.Entry, error) {
	return s.entryRepo.ListByUser(ctx, userID)
}

// DeleteEntry 删除用户的一条故事
func (s *StoryService) DeleteEntry(ctx context.Context, userID, entryID string) error {
	err := s.entryRepo.Delete(ctx, userID, entryID)
	if err != nil {
		if errors.Is(err, storyRepo.ErrEntryNotFound) {
			return ErrStoryNotFound
		}
		return err
	}
	return nil
}
