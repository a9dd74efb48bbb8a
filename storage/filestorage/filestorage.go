package filestorage

// 逐条落盘的文件存储：每条词条写一个缩进JSON、一个纯文本组版，
// 并追加到汇总的JSON Lines语料文件

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/moeidioms/crawler/parse/moeidiom"
	"go.uber.org/zap"
)

type FileStore struct {
	jsonDir string
	txtDir  string
	options
}

// 构造文件存储并预建输出目录
func New(opts ...Option) (*FileStore, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	f := &FileStore{}
	f.options = options
	f.jsonDir = filepath.Join(f.outDir, "json")
	f.txtDir = filepath.Join(f.outDir, "txt")

	for _, dir := range []string{f.jsonDir, f.txtDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir failed: %w", err)
		}
	}

	return f, nil
}

func (f *FileStore) Save(entries ...*moeidiom.Entry) error {
	for _, entry := range entries {
		base := entry.ID + "_" + moeidiom.SafeSlug(entry.Title)

		if err := f.writeJSON(filepath.Join(f.jsonDir, base+".json"), entry); err != nil {
			return err
		}
		if err := f.writeTxt(filepath.Join(f.txtDir, base+".txt"), entry); err != nil {
			return err
		}
		if err := f.appendCorpus(entry); err != nil {
			return err
		}
		f.logger.Debug("entry written",
			zap.String("id", entry.ID),
			zap.String("title", entry.Title))
	}
	return nil
}

// 文件存储没有缓冲
func (f *FileStore) Flush() error {
	return nil
}

// 缩进JSON，CJK与URL原样输出不做HTML转义
func (f *FileStore) writeJSON(path string, entry *moeidiom.Entry) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file failed: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entry); err != nil {
		return fmt.Errorf("encode json failed: %w", err)
	}
	return nil
}

func (f *FileStore) writeTxt(path string, entry *moeidiom.Entry) error {
	if err := os.WriteFile(path, []byte(entry.Fulltext+"\n"), 0o644); err != nil {
		return fmt.Errorf("write txt file failed: %w", err)
	}
	return nil
}

// 汇总语料按行追加，单进程写入无需加锁
func (f *FileStore) appendCorpus(entry *moeidiom.Entry) error {
	path := filepath.Join(f.outDir, f.corpusName)
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open corpus file failed: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entry); err != nil {
		return fmt.Errorf("append corpus failed: %w", err)
	}
	return nil
}
