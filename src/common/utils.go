package common

import (
	"strconv"
	"strings"
)

func IntToString(i int) string {
	return strconv.Itoa(i)
}

func IsLocalHost(host string) bool {
	return strings.HasPrefix(host, "127.0.0.1") || strings.HasPrefix(host, "localhost")
}

// Only "true" (any case) is true. Anything else, including "", is false.
func ParseBoolean(s string) bool {
	return strings.EqualFold(s, "true")
}

// Avro decodes int as int32 and long as int64.
func AvroInt64(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case map[string]interface{}:
		for _, unionValue := range v {
			return AvroInt64(unionValue)
		}
	}
	return 0
}
