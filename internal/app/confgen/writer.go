package confgen

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// WriteFileWithBackup writes content to path, first moving any existing
// file aside under a timestamped .bak suffix. The backup path is returned
// when one was made.
func WriteFileWithBackup(path string, content []byte, logger *logrus.Logger) (string, error) {
	backupPath := ""
	if _, err := os.Stat(path); err == nil {
		backupPath = path + ".bak." + time.Now().Format("20060102_150405")
		if err := os.Rename(path, backupPath); err != nil {
			return "", err
		}
		logger.WithField("backup", backupPath).Info("backed up existing file")
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return backupPath, err
	}
	logger.WithField("path", path).Info("generated file")
	return backupPath, nil
}

// WriteYAMLWithBackup marshals value and writes it via WriteFileWithBackup.
func WriteYAMLWithBackup(path string, value interface{}, logger *logrus.Logger) (string, error) {
	content, err := yaml.Marshal(value)
	if err != nil {
		return "", err
	}
	return WriteFileWithBackup(path, content, logger)
}
