package utils

import "fmt"

// ToString converts raw database row values to string. Drivers return text
// columns as string or []byte depending on configuration; numeric columns
// fall through to fmt.
func ToString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
