package keywords

import (
	"log"
	"os"
	"strings"
)

// CoreCount 关键词文件前 9 行视为核心词，其余为场景词。
// 纯按行号切分，文件里没有任何标记来校验这一点。
const CoreCount = 9

// Defaults 关键词文件缺失或不可读时使用
var Defaults = []string{"普拉提", "体态矫正", "产后修复"}

// Load 读取关键词文件：每行一个，去掉首尾空白并跳过空行，保持文件顺序。
// 任何读取失败都返回默认关键词，不向上抛错。
func Load(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("keywords: read %s failed, using defaults: %v", path, err)
		return defaults()
	}

	// 不限制单行长度，超长行也按普通关键词保留
	out := make([]string, 0, 16)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if len(out) == 0 {
		log.Printf("keywords: %s has no keywords, using defaults", path)
		return defaults()
	}
	return out
}

func defaults() []string {
	return append([]string(nil), Defaults...)
}

// Split 按固定下标切成核心词与场景词
func Split(list []string) (core, scene []string) {
	if len(list) <= CoreCount {
		return list, nil
	}
	return list[:CoreCount], list[CoreCount:]
}

// IsCore 判断关键词第一次出现的位置是否落在核心区间
func IsCore(list []string, kw string) bool {
	for i, k := range list {
		if k == kw {
			return i < CoreCount
		}
	}
	return false
}
