package model

import (
	"strings"

	"github.com/google/uuid"
)

// NewID 生成带业务前缀的短ID，例如 paper_3f9a1c0b7d2e
func NewID(prefix string) string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + "_" + hex[:12]
}
