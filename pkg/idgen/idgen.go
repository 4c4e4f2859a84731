/*
 * @Description: ID 生成和解码服务
 * @Author: 安知鱼
 * @Date: 2025-06-17 20:38:15
 * @LastEditTime: 2026-09-24 16:40:19
 * @LastEditors: 安知鱼
 */
package idgen

import (
	"fmt"
	mrand "math/rand"
	"sync"

	"github.com/sqids/sqids-go"

	"github.com/predelnews/predelnews-app/pkg/constant"
)

// DefaultAlphabet 是默认的字母表
const DefaultAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// EntityType 定义了不同实体在生成公共 ID 时的类型标识。
const (
	EntityTypeArticle  uint64 = 1 // 文章
	EntityTypeCategory uint64 = 2 // 分类
	EntityTypeTag      uint64 = 3 // 标签
	EntityTypeAuthor   uint64 = 4 // 作者
	EntityTypeRegion   uint64 = 5 // 地区
)

var (
	mu           sync.RWMutex
	sqidsEncoder *sqids.Sqids
)

func init() {
	if err := InitSqidsEncoderWithSeed(""); err != nil {
		panic(err)
	}
}

// shuffleAlphabet 使用种子打乱字母表
func shuffleAlphabet(seed string) string {
	var seedInt int64
	for i, c := range seed {
		seedInt += int64(c) * int64(i+1)
	}

	// 确定性随机数生成器，同一个种子总是得到同一个字母表
	r := mrand.New(mrand.NewSource(seedInt))
	alphabet := []rune(DefaultAlphabet)
	r.Shuffle(len(alphabet), func(i, j int) {
		alphabet[i], alphabet[j] = alphabet[j], alphabet[i]
	})
	return string(alphabet)
}

// InitSqidsEncoderWithSeed 使用种子初始化 Sqids 编码器。
// 如果 seed 为空字符串，则使用默认字母表
func InitSqidsEncoderWithSeed(seed string) error {
	alphabet := DefaultAlphabet
	if seed != "" {
		alphabet = shuffleAlphabet(seed)
	}

	s, err := sqids.New(sqids.Options{
		MinLength: 4,
		Alphabet:  alphabet,
	})
	if err != nil {
		return fmt.Errorf("初始化 Sqids 编码器失败: %w", err)
	}

	mu.Lock()
	sqidsEncoder = s
	mu.Unlock()
	return nil
}

func encoder() *sqids.Sqids {
	mu.RLock()
	defer mu.RUnlock()
	return sqidsEncoder
}

// GeneratePublicID 把数据库ID和实体类型编码为公共ID
func GeneratePublicID(dbID uint, entityType uint64) (string, error) {
	id, err := encoder().Encode([]uint64{uint64(dbID), entityType})
	if err != nil {
		return "", fmt.Errorf("编码公共ID失败: %w", err)
	}
	return id, nil
}

// MustPublicID 与 GeneratePublicID 相同，编码失败时返回空字符串。
// ID 为 0 时同样返回空字符串。
func MustPublicID(dbID uint, entityType uint64) string {
	if dbID == 0 {
		return ""
	}
	id, err := GeneratePublicID(dbID, entityType)
	if err != nil {
		return ""
	}
	return id
}

// DecodePublicID 解码公共 ID
func DecodePublicID(publicID string) (dbID uint, entityType uint64, err error) {
	numbers := encoder().Decode(publicID)
	if len(numbers) != 2 {
		return 0, 0, fmt.Errorf("%w: 无法从公共ID解码出预期数量的数字(期望2个，得到%d个)", constant.ErrInvalidPublicID, len(numbers))
	}
	// 非规范编码的字符串也能解出数字，回编一次确认
	if canonical, err := encoder().Encode(numbers); err != nil || canonical != publicID {
		return 0, 0, fmt.Errorf("%w: %s", constant.ErrInvalidPublicID, publicID)
	}
	return uint(numbers[0]), numbers[1], nil
}

// DecodeEntityID 解码并校验实体类型
func DecodeEntityID(publicID string, entityType uint64) (uint, error) {
	dbID, got, err := DecodePublicID(publicID)
	if err != nil {
		return 0, err
	}
	if got != entityType || dbID == 0 {
		return 0, fmt.Errorf("%w: %s", constant.ErrInvalidPublicID, publicID)
	}
	return dbID, nil
}

// DecodeEntityIDs 批量解码同一类型的公共ID
func DecodeEntityIDs(publicIDs []string, entityType uint64) ([]uint, error) {
	if len(publicIDs) == 0 {
		return nil, nil
	}
	dbIDs := make([]uint, len(publicIDs))
	for i, publicID := range publicIDs {
		dbID, err := DecodeEntityID(publicID, entityType)
		if err != nil {
			return nil, fmt.Errorf("解码公共ID '%s' 失败: %w", publicID, err)
		}
		dbIDs[i] = dbID
	}
	return dbIDs, nil
}
