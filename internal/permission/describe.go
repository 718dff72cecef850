package permission

import (
	"fmt"
	"strings"
)

const maxPreview = 120

// Describe generates a one-line summary of a tool call for the prompt.
func Describe(name string, args map[string]any) string {
	str := func(key string) (string, bool) {
		v, ok := args[key].(string)
		return v, ok && v != ""
	}

	switch name {
	case "create_file", "modify_file", "append_file", "delete_file", "read_file":
		if p, ok := str("file_path"); ok {
			return fmt.Sprintf("%s %s", name, p)
		}
	case "create_wd", "delete_directory", "list_directory":
		if p, ok := str("path"); ok {
			return fmt.Sprintf("%s %s", name, p)
		}
	case "execute_command":
		if cmd, ok := str("command"); ok {
			return fmt.Sprintf("%s '%s'", name, shorten(cmd))
		}
	case "execute_code":
		if code, ok := str("code"); ok {
			return fmt.Sprintf("%s '%s'", name, shorten(code))
		}
	case "search_and_scrape", "call_searcher":
		if q, ok := str("query"); ok {
			return fmt.Sprintf("%s '%s'", name, shorten(q))
		}
	}
	return name
}

func shorten(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if runes := []rune(s); len(runes) > maxPreview {
		return string(runes[:maxPreview]) + "..."
	}
	return s
}
