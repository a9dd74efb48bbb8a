package engine

// 批量抓取驱动：沿数字ID空间按固定步进迭代，抓取→解析→落盘，
// 连续不存在达到上限后收束整个任务

import (
	"context"
	"errors"
	"strconv"

	"github.com/moeidioms/crawler/parse/moeidiom"
	"go.uber.org/zap"
)

// 一次批量抓取的运行统计
type Stats struct {
	OK     int // 成功入库
	Missed int // 不存在或非进阶版页面
	Failed int // 抓取或解析出错
	LastID int // 停止时的ID
}

type Crawler struct {
	options
}

func NewEngine(opts ...Option) *Crawler {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	e := &Crawler{}
	e.options = options

	return e
}

// Run执行整个批量任务直到连续不存在达到上限或上下文取消。
// 成功与普通错误都会清零连续不存在计数，只有ErrNotFound累积。
func (c *Crawler) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	if c.Step == 0 {
		return stats, errors.New("step must not be zero")
	}
	if c.Task == nil || c.Task.Fetcher == nil {
		return stats, errors.New("task with fetcher is required")
	}
	if c.Storage == nil {
		return stats, errors.New("storage is required")
	}

	defer func() {
		if err := c.Storage.Flush(); err != nil {
			c.Logger.Error("flush storage failed", zap.Error(err))
		}
	}()

	c.Logger.Info("batch crawl started",
		zap.String("task", c.Task.Name),
		zap.Int("start_id", c.StartID),
		zap.Int("step", c.Step),
		zap.Int("max_misses", c.MaxMisses))

	misses := 0
	for id := c.StartID; ; id += c.Step {
		stats.LastID = id

		select {
		case <-ctx.Done():
			c.Logger.Info("batch crawl canceled", zap.Int("last_id", id))
			return stats, ctx.Err()
		default:
		}

		idStr := strconv.Itoa(id)
		pageURL := moeidiom.ViewURL(c.Task.URL, idStr)

		body, err := c.Task.Fetcher.Get(ctx, c.Task, pageURL)
		var entry *moeidiom.Entry
		if err == nil {
			entry, err = moeidiom.Parse(idStr, pageURL, body)
		}

		switch {
		case err == nil:
			if err := c.Storage.Save(entry); err != nil {
				stats.Failed++
				misses = 0
				c.Logger.Error("save entry failed",
					zap.Int("id", id), zap.Error(err))
				continue
			}
			stats.OK++
			misses = 0
			c.Logger.Info("entry saved",
				zap.Int("id", id),
				zap.String("title", entry.Title),
				zap.Int("ok", stats.OK))
		case errors.Is(err, moeidiom.ErrNotFound):
			stats.Missed++
			misses++
			c.Logger.Debug("entry missing",
				zap.Int("id", id),
				zap.Int("consecutive", misses))
			if misses >= c.MaxMisses {
				c.Logger.Info("batch crawl finished",
					zap.Int("last_id", id),
					zap.Int("ok", stats.OK),
					zap.Int("missed", stats.Missed),
					zap.Int("failed", stats.Failed))
				return stats, nil
			}
		default:
			stats.Failed++
			misses = 0
			c.Logger.Error("fetch or parse failed",
				zap.Int("id", id), zap.Error(err))
		}
	}
}
