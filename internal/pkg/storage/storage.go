// Package storage 原图留存存储抽象
// 压缩后的数据 URL 始终写入文档库，这里只负责可选的原图备份
package storage

import (
	"context"
	"io"
)

// Storage 存储接口
type Storage interface {
	// Upload 上传文件，返回可访问的 URL
	Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error)

	// Delete 删除文件
	Delete(ctx context.Context, key string) error

	// Exists 检查文件是否存在
	Exists(ctx context.Context, key string) (bool, error)

	// GetStorageType 获取存储类型
	GetStorageType() string
}

// StorageType 存储类型
type StorageType string

const (
	StorageTypeLocal StorageType = "local" // 本地文件系统
	StorageTypeOSS   StorageType = "oss"   // 阿里云OSS
)
