// Logging stack: component-scoped logrus entries over a single root logger,
// with optional JSON formatting and rotating-file output.

package taskforge_internal

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	LOGGER_CONFIG_USE_JSON_DEFAULT                = false
	LOGGER_CONFIG_LEVEL_DEFAULT                   = "info"
	LOGGER_CONFIG_DISABLE_SRC_FILE_DEFAULT        = false
	LOGGER_CONFIG_LOG_FILE_DEFAULT                = "" // i.e. stderr
	LOGGER_CONFIG_LOG_FILE_MAX_SIZE_MB_DEFAULT    = 10
	LOGGER_CONFIG_LOG_FILE_MAX_BACKUP_NUM_DEFAULT = 1

	LOGGER_DEFAULT_LEVEL    = logrus.InfoLevel
	LOGGER_TIMESTAMP_FORMAT = time.RFC3339
	LOGGER_COMPONENT_FIELD_NAME = "comp"
)

// CollectableLogger satisfies testutils.CollectableLog so tests can redirect
// output to t.Log without touching the global logger singleton directly.
type CollectableLogger struct {
	logrus.Logger
}

func (log *CollectableLogger) GetOutput() io.Writer {
	return log.Out
}

func (log *CollectableLogger) GetLevel() any {
	return log.Logger.GetLevel()
}

func (log *CollectableLogger) SetLevel(level any) {
	if level, ok := level.(logrus.Level); ok {
		log.Logger.SetLevel(level)
	}
}

type LoggerConfig struct {
	UseJson             bool   `yaml:"use_json"`
	Level               string `yaml:"level"`
	DisableSrcFile      bool   `yaml:"disable_src_file"`
	LogFile             string `yaml:"log_file"`
	LogFileMaxSizeMB    int    `yaml:"log_file_max_size_mb"`
	LogFileMaxBackupNum int    `yaml:"log_file_max_backup_num"`
}

func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		UseJson:             LOGGER_CONFIG_USE_JSON_DEFAULT,
		Level:               LOGGER_CONFIG_LEVEL_DEFAULT,
		DisableSrcFile:      LOGGER_CONFIG_DISABLE_SRC_FILE_DEFAULT,
		LogFile:             LOGGER_CONFIG_LOG_FILE_DEFAULT,
		LogFileMaxSizeMB:    LOGGER_CONFIG_LOG_FILE_MAX_SIZE_MB_DEFAULT,
		LogFileMaxBackupNum: LOGGER_CONFIG_LOG_FILE_MAX_BACKUP_NUM_DEFAULT,
	}
}

// ModuleDirPathCache strips a module-root prefix from logged file paths so
// that caller info stays short regardless of where the module is checked out.
type ModuleDirPathCache struct {
	prefixList []string
	keepNDirs  int
}

func (p *ModuleDirPathCache) addPrefix(prefix string) {
	i := len(p.prefixList) - 1
	for i >= 0 {
		if p.prefixList[i] == prefix {
			return
		}
		if len(p.prefixList[i]) > len(prefix) {
			break
		}
		i--
	}
	i++
	if i >= len(p.prefixList) {
		p.prefixList = append(p.prefixList, prefix)
	} else {
		p.prefixList = append(p.prefixList[:i+1], p.prefixList[i:]...)
		p.prefixList[i] = prefix
	}
}

func (p *ModuleDirPathCache) stripPrefix(filePath string) string {
	for _, prefix := range p.prefixList {
		if strings.HasPrefix(filePath, prefix) {
			return filePath[len(prefix):]
		}
	}
	pathComp := strings.Split(filePath, "/")
	keepNComps := p.keepNDirs + 1
	if keepNComps < 1 {
		keepNComps = 1
	}
	if keepNComps < len(pathComp) {
		filePath = path.Join(pathComp[len(pathComp)-keepNComps:]...)
	}
	return filePath
}

var moduleDirPathCache = &ModuleDirPathCache{
	prefixList: []string{},
	keepNDirs:  1,
}

// AddCallerSrcPathPrefixToLogger registers the directory `upNDirs` above the
// caller's file as a prefix to strip from future log records.
func AddCallerSrcPathPrefixToLogger(upNDirs int, skip int) error {
	skip += 1
	_, file, _, ok := runtime.Caller(skip)
	if !ok {
		return fmt.Errorf("cannot determine source root: runtime.Caller(%d) failed", skip)
	}
	prefix := path.Dir(file)
	for i := 0; i < upNDirs; i++ {
		prefix = path.Dir(prefix)
	}
	if prefix[len(prefix)-1] != '/' {
		prefix += "/"
	}
	moduleDirPathCache.addPrefix(prefix)
	return nil
}

type logFuncFilePair struct {
	function string
	file     string
}

type logFuncFileCache struct {
	m     sync.Mutex
	cache map[uintptr]*logFuncFilePair
}

func (c *logFuncFileCache) prettyfy(f *runtime.Frame) (function string, file string) {
	c.m.Lock()
	defer c.m.Unlock()
	ff := c.cache[f.PC]
	if ff == nil {
		ff = &logFuncFilePair{
			file: fmt.Sprintf("%s:%d", moduleDirPathCache.stripPrefix(f.File), f.Line),
		}
		c.cache[f.PC] = ff
	}
	return ff.function, ff.file
}

var funcFileCache = &logFuncFileCache{cache: make(map[uintptr]*logFuncFilePair)}

var logFieldKeySortOrder = map[string]int{
	logrus.FieldKeyTime:         -5,
	logrus.FieldKeyLevel:        -4,
	LOGGER_COMPONENT_FIELD_NAME: -3,
	logrus.FieldKeyFile:         -2,
	logrus.FieldKeyFunc:         -1,
	logrus.FieldKeyMsg:          1,
}

type logFieldKeySortable struct{ keys []string }

func (d *logFieldKeySortable) Len() int      { return len(d.keys) }
func (d *logFieldKeySortable) Swap(i, j int) { d.keys[i], d.keys[j] = d.keys[j], d.keys[i] }
func (d *logFieldKeySortable) Less(i, j int) bool {
	a, b := d.keys[i], d.keys[j]
	oa, ob := logFieldKeySortOrder[a], logFieldKeySortOrder[b]
	if oa != 0 || ob != 0 {
		return oa < ob
	}
	return strings.Compare(a, b) == -1
}

func logSortFieldKeys(keys []string) { sort.Sort(&logFieldKeySortable{keys}) }

var LogTextFormatter = &logrus.TextFormatter{
	DisableColors:    true,
	FullTimestamp:    true,
	TimestampFormat:  LOGGER_TIMESTAMP_FORMAT,
	CallerPrettyfier: funcFileCache.prettyfy,
	SortingFunc:      logSortFieldKeys,
}

var LogJsonFormatter = &logrus.JSONFormatter{
	TimestampFormat:  LOGGER_TIMESTAMP_FORMAT,
	CallerPrettyfier: funcFileCache.prettyfy,
}

var RootLogger = &CollectableLogger{
	Logger: logrus.Logger{
		Out:          os.Stderr,
		Formatter:    LogTextFormatter,
		Level:        LOGGER_DEFAULT_LEVEL,
		ReportCaller: true,
	},
}

func GetRootLogger() *CollectableLogger { return RootLogger }

func init() {
	AddCallerSrcPathPrefixToLogger(2, 0)
}

// SetLogger applies a LoggerConfig to RootLogger, swapping formatter, level,
// caller reporting and output (including rotation) in place.
func SetLogger(logCfg *LoggerConfig) error {
	if logCfg == nil {
		logCfg = DefaultLoggerConfig()
	}

	if logCfg.Level != "" {
		level, err := logrus.ParseLevel(logCfg.Level)
		if err != nil {
			return err
		}
		RootLogger.SetLevel(level)
	}

	if logCfg.UseJson {
		RootLogger.SetFormatter(LogJsonFormatter)
	} else {
		RootLogger.SetFormatter(LogTextFormatter)
	}

	RootLogger.SetReportCaller(!logCfg.DisableSrcFile)

	switch logCfg.LogFile {
	case "stderr":
		RootLogger.SetOutput(os.Stderr)
	case "stdout":
		RootLogger.SetOutput(os.Stdout)
	case "":
	default:
		logDir := path.Dir(logCfg.LogFile)
		if _, err := os.Stat(logDir); err != nil {
			if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
				return err
			}
		}
		_, err := os.Stat(logCfg.LogFile)
		forceRotate := err == nil
		lj := &lumberjack.Logger{
			Filename:   logCfg.LogFile,
			MaxSize:    logCfg.LogFileMaxSizeMB,
			MaxBackups: logCfg.LogFileMaxBackupNum,
		}
		if forceRotate {
			if err := lj.Rotate(); err != nil {
				return err
			}
		}
		RootLogger.SetOutput(lj)
	}

	return nil
}

func NewCompLogger(compName string) *logrus.Entry {
	return RootLogger.WithField(LOGGER_COMPONENT_FIELD_NAME, compName)
}
