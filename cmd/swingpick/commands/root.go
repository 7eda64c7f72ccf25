package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "swingpick",
	Short: "스윙매매 후보 알리미",
	Long: `Swingpick CLI

구글 시트 후보 목록과 KOSPI 시총 순위를 교차해
매수 후보를 선별하고 카카오톡으로 발송합니다.

Usage:
  go run ./cmd/swingpick [command]

Examples:
  go run ./cmd/swingpick run
  go run ./cmd/swingpick preview
  go run ./cmd/swingpick scheduler start
  go run ./cmd/swingpick api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
