package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// parseScientificNotation 解析科學記號字串（如 "1e5"）為整數
func parseScientificNotation(s string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %q", s)
	}
	if f != float64(int(f)) {
		return 0, errors.Errorf("%q is not an integer", s)
	}
	return int(f), nil
}

// parseSizes 解析逗號分隔的大小列表，每項都必須 > 0
func parseSizes(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	sizes := make([]int, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		n, err := parseScientificNotation(p)
		if err != nil {
			return nil, errors.Wrap(err, "--sizes")
		}
		if n <= 0 {
			return nil, errors.Errorf("--sizes: size must be > 0, got %d", n)
		}
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		return nil, errors.New("--sizes: no size given")
	}
	return sizes, nil
}

// parseKeys 解析逗號分隔的 int64 key 列表
func parseKeys(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	keys := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		k, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "--keys: parse %q", p)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// formatScientific 將數字格式化為科學記號（用於檔名）
func formatScientific(n int) string {
	if n == 0 {
		return "0"
	}
	exp := 0
	divisor := 1
	for n/divisor >= 10 {
		divisor *= 10
		exp++
	}
	coefficient := float64(n) / float64(divisor)
	if coefficient == float64(int(coefficient)) {
		return fmt.Sprintf("%de%d", int(coefficient), exp)
	}
	return fmt.Sprintf("%.1fe%d", coefficient, exp)
}

// formatDecimal 將浮點數格式化為不含小數點的字串（用於檔名），保留兩位小數
func formatDecimal(f float64) string {
	val := int(f*100 + 0.5)
	switch {
	case val%100 == 0:
		return fmt.Sprintf("%d", val/100)
	case val%10 == 0:
		return fmt.Sprintf("%d_%d", val/100, (val%100)/10)
	default:
		return fmt.Sprintf("%d_%02d", val/100, val%100)
	}
}
