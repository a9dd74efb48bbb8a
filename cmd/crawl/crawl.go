package crawl

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/moeidioms/crawler/engine"
	"github.com/moeidioms/crawler/limiter"
	"github.com/moeidioms/crawler/log"
	"github.com/moeidioms/crawler/parse/moeidiom"
	"github.com/moeidioms/crawler/proxy"
	"github.com/moeidioms/crawler/spider"
	"github.com/moeidioms/crawler/storage"
	"github.com/moeidioms/crawler/storage/filestorage"
	"github.com/moeidioms/crawler/storage/sqlstorage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

var CrawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "run idiom batch crawl.",
	Long:  "run idiom batch crawl.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run()
	},
}

func init() {
	CrawlCmd.Flags().IntVar(
		&startID, "start-id", 1, "set start id, may be negative")
	CrawlCmd.Flags().IntVar(
		&step, "step", 1, "set id step, negative walks backwards")
	CrawlCmd.Flags().StringVar(
		&outDir, "out-dir", "out_moe", "set output directory")
	CrawlCmd.Flags().IntVar(
		&maxMisses, "max-misses", 20, "stop after this many consecutive missing ids")
	CrawlCmd.Flags().StringVar(
		&configFile, "config", "", "set config file path (TOML)")
	CrawlCmd.MarkFlagRequired("start-id")
	CrawlCmd.MarkFlagRequired("step")
}

var (
	startID    int
	step       int
	outDir     string
	maxMisses  int
	configFile string
)

// 任务调优与存储后端走配置文件，抓取区间参数走命令行
type Config struct {
	Log     LogConfig     `toml:"log"`
	Task    TaskConfig    `toml:"task"`
	Storage StorageConfig `toml:"storage"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type TaskConfig struct {
	Cookie    string        `toml:"cookie"`
	WaitTime  int64         `toml:"wait_time"` // 随机休眠上限，秒
	Timeout   int64         `toml:"timeout"`   // http超时，秒
	Fetcher   string        `toml:"fetcher"`
	ProxyURLs []string      `toml:"proxy_urls"`
	Limits    []LimitConfig `toml:"limits"`
}

type LimitConfig struct {
	EventCount int `toml:"event_count"`
	EventDur   int `toml:"event_dur"` // 秒
	Bucket     int `toml:"bucket"`    // 桶大小
}

type StorageConfig struct {
	SQLURL     string `toml:"sql_url"` // 非空时启用MySQL镜像存储
	Table      string `toml:"table"`
	BatchCount int    `toml:"batch_count"`
}

var defaultConfig = Config{
	Log: LogConfig{Level: "info"},
	Task: TaskConfig{
		WaitTime: 2,
		Timeout:  30,
		Fetcher:  "browser",
	},
}

// 成語典站点的固定请求头
func defaultHeaders() map[string]string {
	return map[string]string{
		"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
			"AppleWebKit/537.36 (KHTML, like Gecko) " +
			"Chrome/124.0 Safari/537.36 moe-idiom-adv-scraper/6.0",
		"Accept-Language": "zh-TW,zh;q=0.9,en;q=0.8",
		"Referer":         moeidiom.BaseURL + "/",
		"Cache-Control":   "no-cache",
	}
}

func Run() error {
	cfg := defaultConfig
	if configFile != "" {
		if _, err := toml.DecodeFile(configFile, &cfg); err != nil {
			return fmt.Errorf("load config failed: %w", err)
		}
	}

	// 日志：标准输出始终打开，配置了文件则同时写入并轮转
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = zapcore.InfoLevel
	}
	plugin := log.NewStdoutPlugin(level)
	if cfg.Log.File != "" {
		filePlugin, closer := log.NewFilePlugin(cfg.Log.File, level)
		defer closer.Close()
		plugin = zapcore.NewTee(plugin, filePlugin)
	}
	logger := log.NewLogger(plugin)
	zap.ReplaceGlobals(logger)
	defer logger.Sync()
	logger.Info("log init end")

	// 代理
	var p proxy.ProxyFunc
	if len(cfg.Task.ProxyURLs) > 0 {
		var err error
		p, err = proxy.RoundRobinProxySwitcher(cfg.Task.ProxyURLs...)
		if err != nil {
			logger.Error("RoundRobinProxySwitcher failed", zap.Error(err))
			return err
		}
	}

	// 限速器，未配置时默认每秒2个请求
	var limits []limiter.RateLimiter
	for _, lc := range cfg.Task.Limits {
		l := rate.NewLimiter(
			limiter.Per(lc.EventCount, time.Duration(lc.EventDur)*time.Second),
			lc.Bucket)
		limits = append(limits, l)
	}
	var limit limiter.RateLimiter
	switch len(limits) {
	case 0:
		limit = rate.NewLimiter(limiter.Per(2, 1*time.Second), 1)
	case 1:
		limit = limits[0]
	default:
		limit = limiter.Multi(limits...)
	}

	fetchType := spider.BrowserFetchType
	if cfg.Task.Fetcher == "base" {
		fetchType = spider.BaseFetchType
	}

	task := spider.NewTask(
		spider.WithName("moe_idiom_adv"),
		spider.WithURL(moeidiom.BaseURL),
		spider.WithCookie(cfg.Task.Cookie),
		spider.WithHeaders(defaultHeaders()),
		spider.WithWaitTime(cfg.Task.WaitTime),
		spider.WithTimeout(time.Duration(cfg.Task.Timeout)*time.Second),
		spider.WithProxy(p),
		spider.WithLimit(limit),
		spider.WithFetcher(spider.NewFetchService(fetchType)),
		spider.WithLogger(logger),
	)

	// 文件存储必开，配置了连接串再叠加MySQL镜像
	fileStore, err := filestorage.New(
		filestorage.WithOutDir(outDir),
		filestorage.WithLogger(logger),
	)
	if err != nil {
		logger.Error("create file storage failed", zap.Error(err))
		return err
	}
	stores := []storage.Storage{fileStore}
	if cfg.Storage.SQLURL != "" {
		opts := []sqlstorage.Option{
			sqlstorage.WithSQLURL(cfg.Storage.SQLURL),
			sqlstorage.WithLogger(logger),
		}
		if cfg.Storage.Table != "" {
			opts = append(opts, sqlstorage.WithTableName(cfg.Storage.Table))
		}
		if cfg.Storage.BatchCount > 0 {
			opts = append(opts, sqlstorage.WithBatchCount(cfg.Storage.BatchCount))
		}
		sqlStore, err := sqlstorage.New(opts...)
		if err != nil {
			logger.Error("create sql storage failed", zap.Error(err))
			return err
		}
		stores = append(stores, sqlStore)
	}
	var store storage.Storage = stores[0]
	if len(stores) > 1 {
		store = storage.Multi(stores...)
	}

	e := engine.NewEngine(
		engine.WithTask(task),
		engine.WithStorage(store),
		engine.WithLogger(logger),
		engine.WithStartID(startID),
		engine.WithStep(step),
		engine.WithMaxMisses(maxMisses),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := e.Run(ctx)
	logger.Info("crawl summary",
		zap.Int("ok", stats.OK),
		zap.Int("missed", stats.Missed),
		zap.Int("failed", stats.Failed),
		zap.Int("last_id", stats.LastID))
	return err
}
