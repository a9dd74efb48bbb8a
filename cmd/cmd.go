package cmd

import (
	"github.com/moeidioms/crawler/cmd/crawl"
	"github.com/moeidioms/crawler/version"
	"github.com/spf13/cobra"
)

// 命令行入口：crawl子命令执行批量抓取，version打印版本信息

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version.",
	Long:  "print version.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		version.Printer()
	},
}

func Execute() {
	var rootCmd = &cobra.Command{Use: "moecrawler"}
	rootCmd.AddCommand(crawl.CrawlCmd, versionCmd)
	rootCmd.Execute()
}
