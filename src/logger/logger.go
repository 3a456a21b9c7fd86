package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"goal-app/src/config"

	"github.com/sirupsen/logrus"
)

var (
	Log         *logrus.Logger = logrus.New()
	currentFile *os.File
)

// InitLogger ロガーを初期化し、必要ならファイル出力を設定
func InitLogger(cfg config.LogConfig) error {
	Log = logrus.New()

	// ログレベルを設定
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if cfg.Format == "text" {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	} else {
		// JSON形式でログを出力
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	}

	if cfg.Directory == "" {
		Log.SetOutput(os.Stdout)
		return nil
	}

	// ログディレクトリを作成
	if err := os.MkdirAll(cfg.Directory, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	if err := openLogFile(cfg.Directory); err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	// 標準出力とファイルの両方に出力
	Log.SetOutput(io.MultiWriter(os.Stdout, currentFile))
	Log.WithField("file", currentFile.Name()).Info("logging to file")
	return nil
}

// openLogFile 新しいログファイルを作成
func openLogFile(dir string) error {
	// 既存のファイルを閉じる
	if currentFile != nil {
		currentFile.Close()
	}

	filename := fmt.Sprintf("goal-app_%s.log", time.Now().Format("2006-01-02_15-04-05"))
	file, err := os.OpenFile(filepath.Join(dir, filename), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return err
	}

	currentFile = file
	return nil
}

// GetCurrentLogFile 現在のログファイルパスを取得
func GetCurrentLogFile() string {
	if currentFile != nil {
		return currentFile.Name()
	}
	return ""
}

// CloseLogger ロガーを終了
func CloseLogger() {
	if currentFile != nil {
		Log.Info("closing log file")
		currentFile.Close()
		currentFile = nil
	}
}

// WithFields フィールド付きログエントリを作成
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Log.WithFields(fields)
}

// WithField フィールド付きログエントリを作成（単一フィールド）
func WithField(key string, value interface{}) *logrus.Entry {
	return Log.WithField(key, value)
}
