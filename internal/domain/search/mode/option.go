package mode

import "fmt"

// ParseOption maps the externally documented search_option parameter to
// a match mode: "all" requires every token (AND), "partial" broadens to
// any token (OR). An absent option defaults to Any.
func ParseOption(opt string) (Match, error) {
	switch opt {
	case "":
		return Any, nil
	case "all":
		return All, nil
	case "partial":
		return Any, nil
	default:
		return "", fmt.Errorf("unknown search_option %q", opt)
	}
}

// ParseFieldOption maps the type parameter ("title" or "auto") to a
// field target. An absent value defaults to TitleContent.
func ParseFieldOption(opt string) (Field, error) {
	switch opt {
	case "":
		return TitleContent, nil
	case "title":
		return Title, nil
	case "auto":
		return TitleContent, nil
	default:
		return "", fmt.Errorf("unknown type %q", opt)
	}
}
