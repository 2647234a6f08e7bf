package launch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ruslano69/launchdash/pkg/retry"
)

// Типы источников
const (
	SourceCSV      = "csv"
	SourceXLSX     = "xlsx"
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
	SourceMySQL    = "mysql"
	SourceMSSQL    = "mssql"
)

// DefaultQuery - запрос для SQL-источников, если query не задан
const DefaultQuery = "SELECT * FROM spacex_launches"

// SourceConfig описывает, откуда загрузить датасет.
// Для файловых источников Path - локальный путь или s3://bucket/key.
type SourceConfig struct {
	Type    string        `yaml:"type"`    // csv, xlsx, sqlite, postgres, mysql, mssql (пусто = по расширению Path)
	Path    string        `yaml:"path"`    // файл или s3://bucket/key
	DSN     string        `yaml:"dsn"`     // строка подключения для SQL-источников
	Query   string        `yaml:"query"`   // SQL-запрос (по умолчанию DefaultQuery)
	Sheet   string        `yaml:"sheet"`   // лист xlsx (пусто = первый)
	Timeout time.Duration `yaml:"timeout"` // таймаут загрузки удаленного источника (0 = без таймаута)
	S3      S3Config      `yaml:"s3"`
	Retry   retry.Config  `yaml:"retry"` // повторы для s3 и СУБД
}

// Kind возвращает нормализованный тип источника
func (c SourceConfig) Kind() string {
	if c.Type != "" {
		return strings.ToLower(c.Type)
	}
	if strings.EqualFold(filepath.Ext(c.Path), ".xlsx") {
		return SourceXLSX
	}
	return SourceCSV
}

// Name - человекочитаемое имя источника для логов и ошибок (без DSN: там бывают пароли)
func (c SourceConfig) Name() string {
	switch c.Kind() {
	case SourceCSV, SourceXLSX:
		return c.Path
	default:
		return c.Kind() + " query " + strings.TrimSpace(c.query())
	}
}

func (c SourceConfig) query() string {
	if c.Query == "" {
		return DefaultQuery
	}
	return c.Query
}

func (c SourceConfig) remote() bool {
	switch c.Kind() {
	case SourceCSV, SourceXLSX:
		return isS3URL(c.Path)
	}
	return true
}

// Load загружает датасет из локального файла; формат определяется по расширению
func Load(path string) (*Dataset, error) {
	return LoadSource(context.Background(), SourceConfig{Path: path})
}

// LoadSource загружает датасет целиком. Любая ошибка возвращается как *LoadError.
func LoadSource(ctx context.Context, cfg SourceConfig) (*Dataset, error) {
	name := cfg.Name()

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	var records []Record
	var err error

	switch kind := cfg.Kind(); kind {
	case SourceCSV, SourceXLSX:
		if cfg.Path == "" {
			return nil, &LoadError{Path: name, Err: errors.New("dataset path is required")}
		}
		records, err = loadFile(ctx, cfg, kind)
	case SourceSQLite, SourcePostgres, SourceMySQL, SourceMSSQL:
		records, err = loadSQLWithRetry(ctx, cfg)
	default:
		return nil, &LoadError{Path: name, Err: fmt.Errorf("%w: %q", ErrUnsupportedSource, cfg.Type)}
	}
	if err != nil {
		return nil, loadErr(name, err)
	}

	return NewDataset(name, records), nil
}

func loadFile(ctx context.Context, cfg SourceConfig, kind string) ([]Record, error) {
	var data []byte
	var err error

	if cfg.remote() {
		data, err = fetchS3WithRetry(ctx, cfg)
	} else {
		data, err = os.ReadFile(cfg.Path)
	}
	if err != nil {
		return nil, err
	}

	return parseBytes(kind, bytes.NewReader(data), cfg.Sheet)
}

func parseBytes(kind string, r io.Reader, sheet string) ([]Record, error) {
	if kind == SourceXLSX {
		return readXLSX(r, sheet)
	}
	return readCSV(r)
}

// retrier строит Retryer для удаленного источника; пустая секция retry = DefaultConfig
func retrier(cfg SourceConfig) (*retry.Retryer, error) {
	rc := cfg.Retry
	if rc.MaxAttempts == 0 {
		onRetry := rc.OnRetry
		rc = retry.DefaultConfig()
		rc.OnRetry = onRetry
	}
	return retry.New(rc)
}
