package sqlstorage

// 函数式选项模式

import (
	"go.uber.org/zap"
)

type options struct {
	logger     *zap.Logger
	sqlURL     string
	tableName  string
	BatchCount int // 缓冲多少条后批量落库
}

// 默认选项
var defaultOptions = options{
	logger:     zap.NewNop(),
	tableName:  "moe_idioms",
	BatchCount: 50,
}

type Option func(opts *options)

// 配置日志器
func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// 配置数据库连接串
func WithSQLURL(sqlURL string) Option {
	return func(opts *options) {
		opts.sqlURL = sqlURL
	}
}

// 配置词条表名
func WithTableName(name string) Option {
	return func(opts *options) {
		opts.tableName = name
	}
}

// 配置批量落库的条数
func WithBatchCount(batchCount int) Option {
	return func(opts *options) {
		opts.BatchCount = batchCount
	}
}
