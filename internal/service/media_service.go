package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"fabula/internal/model/story"
	"fabula/internal/pkg/id"
	"fabula/internal/pkg/imaging"
	"fabula/internal/pkg/storage"
	storyRepo "fabula/internal/repository/story"
)

var (
	ErrMissingPhotoURL = errors.New("缺少远端图片地址")
	ErrMediaNotFound   = errors.New("媒体条目不存在")
)

// MediaService 媒体库服务
type MediaService struct {
	mediaRepo *storyRepo.MediaRepo
	optimizer *imaging.Optimizer
	store     storage.Storage // 可为 nil，表示不留存原图
	fetcher   *resty.Client
}

// NewMediaService 创建媒体库服务
func NewMediaService(mediaRepo *storyRepo.MediaRepo, optimizer *imaging.Optimizer, store storage.Storage) *MediaService {
	return &MediaService{
		mediaRepo: mediaRepo,
		optimizer: optimizer,
		store:     store,
		fetcher:   resty.New().SetTimeout(30 * time.Second),
	}
}

// Upload 上传一张设备图片
// 压缩后以 data URL 形式入库，统一转为 JPEG
func (s *MediaService) Upload(ctx context.Context, userID, filename string, data []byte) (*story.MediaItem, error) {
	if len(data) == 0 {
		return nil, ErrNoImages
	}

	dataURL, err := s.optimizer.OptimizeToDataURL(data)
	if err != nil {
		return nil, fmt.Errorf("failed to process image: %w", err)
	}

	itemID := id.New()
	item := &story.MediaItem{
		ID:         itemID,
		UserID:     userID,
		Type:       story.MediaTypeUpload,
		ImageURL:   dataURL,
		Filename:   filename,
		MimeType:   "image/jpeg",
		StorageKey: s.retainOriginal(ctx, itemID, data),
	}

	if err := s.mediaRepo.Create(ctx, item); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to save media item")
		return nil, err
	}

	return item, nil
}

// ImportRequest Google 相册导入请求
type ImportRequest struct {
	SourceID    string // 外部来源的媒体ID
	URL         string // 远端图片地址
	Filename    string
	MimeType    string
	AccessToken string // 会话中保存的 OAuth access token
}

// Import 从 Google 相册导入一张图片
// 用 access token 拉取远端二进制，走与上传相同的压缩管线
func (s *MediaService) Import(ctx context.Context, userID string, req *ImportRequest) (*story.MediaItem, error) {
	if req.URL == "" {
		return nil, ErrMissingPhotoURL
	}

	data, err := s.fetchRemote(ctx, req.URL, req.AccessToken)
	if err != nil {
		return nil, err
	}

	dataURL, err := s.optimizer.OptimizeToDataURL(data)
	if err != nil {
		return nil, fmt.Errorf("failed to process imported image: %w", err)
	}

	filename := req.Filename
	if filename == "" {
		filename = "google-photo.jpg"
	}

	itemID := id.New()
	item := &story.MediaItem{
		ID:         itemID,
		UserID:     userID,
		Type:       story.MediaTypeGooglePhotos,
		ImageURL:   dataURL,
		Filename:   filename,
		MimeType:   "image/jpeg",
		SourceID:   req.SourceID,
		StorageKey: s.retainOriginal(ctx, itemID, data),
	}

	if err := s.mediaRepo.Create(ctx, item); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to save imported media item")
		return nil, err
	}

	return item, nil
}

// retainOriginal 将原图备份到对象存储，返回存储键
// 备份失败只记录日志并返回空键，不影响入库
func (s *MediaService) retainOriginal(ctx context.Context, itemID string, data []byte) string {
	if s.store == nil {
		return ""
	}

	key := fmt.Sprintf("media/%s", itemID)
	if _, err := s.store.Upload(ctx, key, bytes.NewReader(data), "image/jpeg"); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to retain original media")
		return ""
	}
	return key
}

// fetchRemote 拉取远端图片二进制
func (s *MediaService) fetchRemote(ctx context.Context, url, accessToken string) ([]byte, error) {
	req := s.fetcher.R().SetContext(ctx)
	if accessToken != "" {
		req.SetAuthToken(accessToken)
	}

	resp, err := req.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch remote image: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("remote image fetch returned status %d", resp.StatusCode())
	}

	return resp.Body(), nil
}

// List 查询用户的全部媒体条目，按创建时间倒序
func (s *MediaService) List(ctx context.Context, userID string) ([]*story.MediaItem, error) {
	return s.mediaRepo.ListByUser(ctx, userID)
}

// Delete 删除用户的一条媒体，并清理对象存储中的原图备份
func (s *MediaService) Delete(ctx context.Context, userID, mediaID string) error {
	err := s.mediaRepo.Delete(ctx, userID, mediaID)
	if err != nil {
		if errors.Is(err, storyRepo.ErrMediaNotFound) {
			return ErrMediaNotFound
		}
		return err
	}

	if s.store != nil {
		key := fmt.Sprintf("media/%s", mediaID)
		if ok, err := s.store.Exists(ctx, key); err == nil && ok {
			if err := s.store.Delete(ctx, key); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("failed to delete retained media")
			}
		}
	}
	return nil
}
