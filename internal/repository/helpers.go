package repository

import (
	"strings"
)

// isUniqueConstraintError checks if an error is a unique constraint violation
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "unique") ||
		strings.Contains(errStr, "duplicate") ||
		strings.Contains(errStr, "already exists")
}

// statementRows returns the rows produced by the n-th statement of a
// SurrealDB response.
func statementRows(results []interface{}, n int) []interface{} {
	if n >= len(results) {
		return nil
	}
	if resp, ok := results[n].(map[string]interface{}); ok {
		if rows, ok := resp["result"].([]interface{}); ok {
			return rows
		}
		return nil
	}
	return nil
}

// extractCount reads the "count" field of a `SELECT count() ... GROUP ALL`
// statement. An empty table yields no rows and therefore zero.
func extractCount(rows []interface{}) int64 {
	if len(rows) == 0 {
		return 0
	}
	if data, ok := rows[0].(map[string]interface{}); ok {
		return toInt64(data["count"])
	}
	return 0
}

// toInt64 converts the numeric types a driver may decode into int64
func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case uint64:
		return int64(n)
	case uint32:
		return int64(n)
	case float64:
		return int64(n)
	case float32:
		return int64(n)
	}
	return 0
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getInt64 extracts an integer value from a map
func getInt64(m map[string]interface{}, key string) int64 {
	return toInt64(m[key])
}
